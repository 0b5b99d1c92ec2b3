package federation

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedsubgraph/internal/printer"
)

// v1HiddenTypes are synthesized types that federation v1 gateways don't expect in service SDL.
var v1HiddenTypes = map[string]bool{
	AnyScalarName:         true,
	EntityUnionName:       true,
	fieldSetScalarV1.Name: true,
	ServiceTypeName:       true,
}

// PrintOptions returns printer options of the _service.sdl for c.
func (c *Composition) PrintOptions(less func(a, b *ast.Definition) bool) *printer.Options {
	if c.Federation2() {
		return &printer.Options{
			SchemaDefinition: printer.SchemaDefinitionAsWritten,
			Less:             less,
		}
	}

	hiddenDirectives := make(map[string]bool, len(V1DirectiveNames))
	for _, name := range V1DirectiveNames {
		hiddenDirectives[name] = true
	}
	queryTypeName := c.Schema.Query.Name

	return &printer.Options{
		HideDirectiveDefinition: func(name string) bool {
			return hiddenDirectives[name]
		},
		HideType: func(def *ast.Definition) bool {
			return v1HiddenTypes[def.Name]
		},
		HideField: func(typeName string, field *ast.FieldDefinition) bool {
			if typeName != queryTypeName {
				return false
			}
			if c.QueryTypeShouldBeEmpty {
				return true
			}
			return field.Name == ServiceFieldName || field.Name == EntitiesFieldName
		},
		SchemaDefinition: printer.SchemaDefinitionNonDefaultRoots,
		Less:             less,
	}
}

// ServiceSDL renders the SDL served by _service.sdl.
func (c *Composition) ServiceSDL(less func(a, b *ast.Definition) bool) string {
	return printer.SDL(c.Schema, c.Document, c.PrintOptions(less))
}
