package federation

import "github.com/vektah/gqlparser/v2/ast"

// federation v1 vocabulary. v1 schemas get these injected under their bare names.

var fieldSetScalarV1 = &ast.Definition{
	Kind:     ast.Scalar,
	Name:     "_FieldSet",
	Position: blankPos,
}

var keyDirective = &ast.DirectiveDefinition{
	Name: "key",
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Name: "fields",
			Type: &ast.Type{
				NamedType: fieldSetScalarV1.Name,
				NonNull:   true,
			},
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationObject,
		ast.LocationInterface,
	},
	IsRepeatable: true,
	Position:     blankPos,
}

var extendsDirective = &ast.DirectiveDefinition{
	Name: "extends",
	Locations: []ast.DirectiveLocation{
		ast.LocationObject,
		ast.LocationInterface,
	},
	Position: blankPos,
}

var externalDirective = &ast.DirectiveDefinition{
	Name: "external",
	Locations: []ast.DirectiveLocation{
		ast.LocationObject,
		ast.LocationFieldDefinition,
	},
	Position: blankPos,
}

var requiresDirective = &ast.DirectiveDefinition{
	Name: "requires",
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Name: "fields",
			Type: &ast.Type{
				NamedType: fieldSetScalarV1.Name,
				NonNull:   true,
			},
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationFieldDefinition,
	},
	Position: blankPos,
}

var providesDirective = &ast.DirectiveDefinition{
	Name: "provides",
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Name: "fields",
			Type: &ast.Type{
				NamedType: fieldSetScalarV1.Name,
				NonNull:   true,
			},
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationFieldDefinition,
	},
	Position: blankPos,
}

var federationDirectives = ast.DirectiveDefinitionList{
	keyDirective,
	extendsDirective,
	externalDirective,
	requiresDirective,
	providesDirective,
}

// V1DirectiveNames are the directive definitions hidden from v1 service SDL.
var V1DirectiveNames = []string{
	keyDirective.Name,
	externalDirective.Name,
	requiresDirective.Name,
	providesDirective.Name,
	extendsDirective.Name,
}

// V1Definitions returns fresh copies of the federation v1 definitions.
func V1Definitions() *DefinitionSet {
	set := &DefinitionSet{}
	for _, def := range federationDirectives {
		set.Directives = append(set.Directives, cloneDirectiveDefinition(def))
	}
	set.Types = append(set.Types, cloneDefinition(fieldSetScalarV1))
	return set
}
