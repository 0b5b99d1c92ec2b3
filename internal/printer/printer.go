package printer

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vvakame/fedsubgraph/internal/graphql"
)

const indent = "  "

type SchemaDefinitionMode int

const (
	// SchemaDefinitionAsWritten prints schema definitions and extensions of the document as they are.
	SchemaDefinitionAsWritten SchemaDefinitionMode = iota
	// SchemaDefinitionNonDefaultRoots prints a schema block only when root type names are not the default ones.
	SchemaDefinitionNonDefaultRoots
)

// Options controls visibility and ordering. Built-in types, introspection types, meta fields
// and directives declared by the prelude are never printed.
type Options struct {
	HideDirectiveDefinition func(name string) bool
	HideType                func(def *ast.Definition) bool
	HideField               func(typeName string, field *ast.FieldDefinition) bool

	SchemaDefinition SchemaDefinitionMode

	// Less orders type definitions. defaults to ascending by name.
	Less func(a, b *ast.Definition) bool
}

// SDL returns printed schema without trailing newline.
func SDL(schema *ast.Schema, doc *ast.SchemaDocument, opts *Options) string {
	var buf bytes.Buffer
	Print(&buf, schema, doc, opts)
	return strings.TrimSpace(buf.String())
}

// Print writes schema as SDL. doc provides schema definitions and extensions.
func Print(w io.Writer, schema *ast.Schema, doc *ast.SchemaDocument, opts *Options) {
	if opts == nil {
		opts = &Options{}
	}

	// gqlparser's formatter writes schema directives into the operation types block,
	// so schema definitions as written are printed here.
	if opts.SchemaDefinition == SchemaDefinitionAsWritten && doc != nil {
		for _, schemaDef := range doc.Schema {
			writeSchemaDefinition(w, schemaDef, false)
		}
		for _, schemaDef := range doc.SchemaExtension {
			writeSchemaDefinition(w, schemaDef, true)
		}
	}

	formatter.NewFormatter(w, formatter.WithIndent(indent)).FormatSchemaDocument(Document(schema, opts))
}

// Document returns the visible definitions of schema in printing order.
// Definitions are shared with schema unless some of their fields are hidden.
func Document(schema *ast.Schema, opts *Options) *ast.SchemaDocument {
	if opts == nil {
		opts = &Options{}
	}

	doc := &ast.SchemaDocument{}

	if opts.SchemaDefinition == SchemaDefinitionNonDefaultRoots {
		if schemaDef := rootOperationTypes(schema); schemaDef != nil {
			doc.Schema = append(doc.Schema, schemaDef)
		}
	}

	directiveNames := make([]string, 0, len(schema.Directives))
	for name, def := range schema.Directives {
		if graphql.IsBuiltInDirective(def) {
			continue
		}
		if opts.HideDirectiveDefinition != nil && opts.HideDirectiveDefinition(name) {
			continue
		}
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)
	for _, name := range directiveNames {
		def := schema.Directives[name]
		if def.Position == nil {
			// formatter reads Position.Src of directive definitions
			copied := *def
			copied.Position = &ast.Position{Src: &ast.Source{}}
			def = &copied
		}
		doc.Directives = append(doc.Directives, def)
	}

	defs := make(ast.DefinitionList, 0, len(schema.Types))
	for _, def := range schema.Types {
		if graphql.IsBuiltInType(def) {
			continue
		}
		if opts.HideType != nil && opts.HideType(def) {
			continue
		}
		defs = append(defs, visibleFields(def, opts))
	}
	less := opts.Less
	if less == nil {
		less = func(a, b *ast.Definition) bool {
			return a.Name < b.Name
		}
	}
	sort.SliceStable(defs, func(i, j int) bool {
		return less(defs[i], defs[j])
	})
	doc.Definitions = defs

	return doc
}

func visibleFields(def *ast.Definition, opts *Options) *ast.Definition {
	if len(def.Fields) == 0 {
		return def
	}

	fields := make(ast.FieldList, 0, len(def.Fields))
	for _, field := range def.Fields {
		if graphql.IsMetaField(field.Name) {
			continue
		}
		if opts.HideField != nil && opts.HideField(def.Name, field) {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == len(def.Fields) {
		return def
	}

	copied := *def
	copied.Fields = fields
	return &copied
}

// rootOperationTypes returns a schema definition when some root type has a non default name.
func rootOperationTypes(schema *ast.Schema) *ast.SchemaDefinition {
	roots := []struct {
		operation ast.Operation
		def       *ast.Definition
		name      string
	}{
		{ast.Query, schema.Query, "Query"},
		{ast.Mutation, schema.Mutation, "Mutation"},
		{ast.Subscription, schema.Subscription, "Subscription"},
	}

	nonDefault := false
	for _, root := range roots {
		if root.def != nil && root.def.Name != root.name {
			nonDefault = true
		}
	}
	if !nonDefault {
		return nil
	}

	schemaDef := &ast.SchemaDefinition{}
	for _, root := range roots {
		if root.def == nil {
			continue
		}
		schemaDef.OperationTypes = append(schemaDef.OperationTypes, &ast.OperationTypeDefinition{
			Operation: root.operation,
			Type:      root.def.Name,
		})
	}
	return schemaDef
}

func writeSchemaDefinition(w io.Writer, schemaDef *ast.SchemaDefinition, extension bool) {
	var buf strings.Builder
	if schemaDef.Description != "" {
		buf.WriteString(`"""` + "\n" + schemaDef.Description + "\n" + `"""` + "\n")
	}
	if extension {
		buf.WriteString("extend ")
	}
	buf.WriteString("schema")
	for _, directive := range schemaDef.Directives {
		buf.WriteString(" ")
		buf.WriteString(FormatDirective(directive))
	}
	if len(schemaDef.OperationTypes) != 0 {
		buf.WriteString(" {\n")
		for _, op := range schemaDef.OperationTypes {
			buf.WriteString(indent + string(op.Operation) + ": " + op.Type + "\n")
		}
		buf.WriteString("}")
	}
	buf.WriteString("\n")

	_, _ = io.WriteString(w, buf.String())
}

// FormatDirective formats an applied directive the same way gqlparser's formatter does,
// like @key(fields: "id").
func FormatDirective(directive *ast.Directive) string {
	if len(directive.Arguments) == 0 {
		return "@" + directive.Name
	}

	args := make([]string, 0, len(directive.Arguments))
	for _, arg := range directive.Arguments {
		args = append(args, arg.Name+": "+arg.Value.String())
	}
	return "@" + directive.Name + "(" + strings.Join(args, ", ") + ")"
}
