package graphql

import "github.com/vektah/gqlparser/v2/ast"

var SpecifiedScalarTypeNames = []string{
	"String",
	"Int",
	"Float",
	"Boolean",
	"ID",
}

func IsSpecifiedScalarType(typeName string) bool {
	for _, name := range SpecifiedScalarTypeNames {
		if name == typeName {
			return true
		}
	}
	return false
}

// IsBuiltInType reports whether def is a specified scalar or comes from the parser prelude.
func IsBuiltInType(def *ast.Definition) bool {
	if def == nil {
		return false
	}
	if def.BuiltIn || IsIntrospectionType(def.Name) {
		return true
	}
	return def.Kind == ast.Scalar && IsSpecifiedScalarType(def.Name)
}
