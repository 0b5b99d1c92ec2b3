package federation

import "github.com/vektah/gqlparser/v2/ast"

// deep copies of schema nodes. positions and comments are shared, they are never written.

func cloneDocument(doc *ast.SchemaDocument) *ast.SchemaDocument {
	copied := &ast.SchemaDocument{
		Position: doc.Position,
		Comment:  doc.Comment,
	}
	for _, def := range doc.Schema {
		copied.Schema = append(copied.Schema, cloneSchemaDefinition(def))
	}
	for _, def := range doc.SchemaExtension {
		copied.SchemaExtension = append(copied.SchemaExtension, cloneSchemaDefinition(def))
	}
	for _, def := range doc.Directives {
		copied.Directives = append(copied.Directives, cloneDirectiveDefinition(def))
	}
	for _, def := range doc.Definitions {
		copied.Definitions = append(copied.Definitions, cloneDefinition(def))
	}
	for _, def := range doc.Extensions {
		copied.Extensions = append(copied.Extensions, cloneDefinition(def))
	}
	return copied
}

func cloneSchemaDefinition(def *ast.SchemaDefinition) *ast.SchemaDefinition {
	copied := *def
	copied.Directives = cloneDirectives(def.Directives)
	copied.OperationTypes = nil
	for _, op := range def.OperationTypes {
		opCopied := *op
		copied.OperationTypes = append(copied.OperationTypes, &opCopied)
	}
	return &copied
}

func cloneDirectiveDefinition(def *ast.DirectiveDefinition) *ast.DirectiveDefinition {
	copied := *def
	copied.Arguments = cloneArgumentDefinitions(def.Arguments)
	copied.Locations = append([]ast.DirectiveLocation(nil), def.Locations...)
	return &copied
}

func cloneDefinition(def *ast.Definition) *ast.Definition {
	copied := *def
	copied.Directives = cloneDirectives(def.Directives)
	copied.Interfaces = append([]string(nil), def.Interfaces...)
	copied.Types = append([]string(nil), def.Types...)
	copied.Fields = nil
	for _, field := range def.Fields {
		copied.Fields = append(copied.Fields, cloneFieldDefinition(field))
	}
	copied.EnumValues = nil
	for _, value := range def.EnumValues {
		valueCopied := *value
		valueCopied.Directives = cloneDirectives(value.Directives)
		copied.EnumValues = append(copied.EnumValues, &valueCopied)
	}
	return &copied
}

func cloneFieldDefinition(field *ast.FieldDefinition) *ast.FieldDefinition {
	copied := *field
	copied.Arguments = cloneArgumentDefinitions(field.Arguments)
	copied.DefaultValue = cloneValue(field.DefaultValue)
	copied.Type = cloneType(field.Type)
	copied.Directives = cloneDirectives(field.Directives)
	return &copied
}

func cloneArgumentDefinitions(args ast.ArgumentDefinitionList) ast.ArgumentDefinitionList {
	if args == nil {
		return nil
	}
	copied := make(ast.ArgumentDefinitionList, 0, len(args))
	for _, arg := range args {
		argCopied := *arg
		argCopied.DefaultValue = cloneValue(arg.DefaultValue)
		argCopied.Type = cloneType(arg.Type)
		argCopied.Directives = cloneDirectives(arg.Directives)
		copied = append(copied, &argCopied)
	}
	return copied
}

func cloneDirectives(directives ast.DirectiveList) ast.DirectiveList {
	if directives == nil {
		return nil
	}
	copied := make(ast.DirectiveList, 0, len(directives))
	for _, directive := range directives {
		copied = append(copied, cloneDirective(directive))
	}
	return copied
}

func cloneDirective(directive *ast.Directive) *ast.Directive {
	copied := *directive
	copied.ParentDefinition = nil
	copied.Definition = nil
	copied.Arguments = nil
	for _, arg := range directive.Arguments {
		argCopied := *arg
		argCopied.Value = cloneValue(arg.Value)
		copied.Arguments = append(copied.Arguments, &argCopied)
	}
	return &copied
}

func cloneValue(value *ast.Value) *ast.Value {
	if value == nil {
		return nil
	}
	copied := *value
	copied.Definition = nil
	copied.ExpectedType = nil
	copied.VariableDefinition = nil
	copied.Children = nil
	for _, child := range value.Children {
		childCopied := *child
		childCopied.Value = cloneValue(child.Value)
		copied.Children = append(copied.Children, &childCopied)
	}
	return &copied
}

func cloneType(typ *ast.Type) *ast.Type {
	if typ == nil {
		return nil
	}
	copied := *typ
	copied.Elem = cloneType(typ.Elem)
	return &copied
}
