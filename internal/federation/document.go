package federation

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

const dummyQueryFieldName = "_dummy"

// injectDefinitions adds definitions of set that doc doesn't declare by itself.
// It returns names of injected directives and types.
func injectDefinitions(doc *ast.SchemaDocument, set *DefinitionSet) (directives []string, types []string) {
	for _, def := range set.Directives {
		if doc.Directives.ForName(def.Name) != nil {
			continue
		}
		doc.Directives = append(doc.Directives, def)
		directives = append(directives, def.Name)
	}
	for _, def := range set.Types {
		if doc.Definitions.ForName(def.Name) != nil {
			continue
		}
		doc.Definitions = append(doc.Definitions, def)
		types = append(types, def.Name)
	}
	return directives, types
}

var defaultRootTypeNames = map[ast.Operation]string{
	ast.Query:        "Query",
	ast.Mutation:     "Mutation",
	ast.Subscription: "Subscription",
}

func declaresType(doc *ast.SchemaDocument, name string) bool {
	return doc.Definitions.ForName(name) != nil || doc.Extensions.ForName(name) != nil
}

// queryTypeName returns the query root type name declared by schema { query: X }, or Query.
func queryTypeName(doc *ast.SchemaDocument) string {
	for _, list := range []ast.SchemaDefinitionList{doc.Schema, doc.SchemaExtension} {
		for _, schemaDef := range list {
			if op := findOperationType(schemaDef, ast.Query); op != nil {
				return op.Type
			}
		}
	}
	return "Query"
}

func findOperationType(schemaDef *ast.SchemaDefinition, operation ast.Operation) *ast.OperationTypeDefinition {
	for _, op := range schemaDef.OperationTypes {
		if op.Operation == operation {
			return op
		}
	}
	return nil
}

// ensureQueryType makes doc have a query type with at least one field.
// It reports whether a placeholder field was added, the query type should be empty in that case.
func ensureQueryType(doc *ast.SchemaDocument) bool {
	name := queryTypeName(doc)

	if len(doc.Schema) != 0 && len(doc.Schema[0].OperationTypes) == 0 && name == "Query" {
		// schema @link(...) without operation types. declare default roots explicitly,
		// they are not inferred when a schema definition exists.
		doc.Schema[0].OperationTypes = append(doc.Schema[0].OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Query,
			Type:      name,
			Position:  blankPos,
		})
		for _, op := range []ast.Operation{ast.Mutation, ast.Subscription} {
			typeName := defaultRootTypeNames[op]
			if !declaresType(doc, typeName) {
				continue
			}
			doc.Schema[0].OperationTypes = append(doc.Schema[0].OperationTypes, &ast.OperationTypeDefinition{
				Operation: op,
				Type:      typeName,
				Position:  blankPos,
			})
		}
	}

	base := doc.Definitions.ForName(name)
	var extensions ast.DefinitionList
	fieldCount := 0
	if base != nil {
		fieldCount += len(base.Fields)
	}
	for _, ext := range doc.Extensions {
		if ext.Name == name {
			extensions = append(extensions, ext)
			fieldCount += len(ext.Fields)
		}
	}
	if fieldCount != 0 {
		return false
	}

	dummy := &ast.FieldDefinition{
		Name:     dummyQueryFieldName,
		Type:     ast.NamedType("String", blankPos),
		Position: blankPos,
	}
	switch {
	case base != nil:
		base.Fields = append(base.Fields, dummy)
	case len(extensions) != 0:
		extensions[0].Fields = append(extensions[0].Fields, dummy)
	default:
		doc.Definitions = append(doc.Definitions, &ast.Definition{
			Kind:     ast.Object,
			Name:     name,
			Fields:   ast.FieldList{dummy},
			Position: blankPos,
		})
	}

	return true
}

// buildBaseSchema validates doc with the GraphQL prelude and builds *ast.Schema.
// doc is consumed, the validator merges extensions into its definitions.
func buildBaseSchema(doc *ast.SchemaDocument) (*ast.Schema, error) {
	prelude, gErr := parser.ParseSchema(validator.Prelude)
	if gErr != nil {
		return nil, gErr
	}

	merged := &ast.SchemaDocument{}
	merged.Merge(prelude)
	merged.Merge(doc)

	schema, err := validator.ValidateSchemaDocument(merged)
	if err != nil {
		return nil, err
	}
	return schema, nil
}
