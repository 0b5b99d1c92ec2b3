package graphql

import "github.com/vektah/gqlparser/v2/ast"

// SpecifiedDirectiveNames are the directives defined by the GraphQL specification.
// gqlparser declares them in its prelude, so they are never printed back as SDL.
var SpecifiedDirectiveNames = []string{
	"include",
	"skip",
	"deprecated",
	"specifiedBy",
}

func IsSpecifiedDirective(directiveName string) bool {
	for _, name := range SpecifiedDirectiveNames {
		if name == directiveName {
			return true
		}
	}
	return false
}

// IsBuiltInDirective reports whether def comes from the specification or the parser prelude.
func IsBuiltInDirective(def *ast.DirectiveDefinition) bool {
	if def == nil {
		return false
	}
	if IsSpecifiedDirective(def.Name) {
		return true
	}
	return def.Position != nil && def.Position.Src != nil && def.Position.Src.BuiltIn
}
