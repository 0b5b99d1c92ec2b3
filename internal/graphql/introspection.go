package graphql

import "strings"

var IntrospectionTypeNames = []string{
	"__Schema",
	"__Directive",
	"__DirectiveLocation",
	"__Type",
	"__Field",
	"__InputValue",
	"__EnumValue",
	"__TypeKind",
}

func IsIntrospectionType(typeName string) bool {
	for _, name := range IntrospectionTypeNames {
		if name == typeName {
			return true
		}
	}
	return false
}

// IsMetaField reports whether fieldName is one of __schema, __type or __typename.
func IsMetaField(fieldName string) bool {
	return strings.HasPrefix(fieldName, "__")
}
