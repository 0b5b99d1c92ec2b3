package federation

import "github.com/vektah/gqlparser/v2/ast"

// definitions of https://specs.apollo.dev/link/v1.0.
// canonical names are used here, RenameDefinitions applies link__ prefix.

var linkPurpose = &ast.Definition{
	Kind: ast.Enum,
	Name: "Purpose",
	EnumValues: ast.EnumValueList{
		&ast.EnumValueDefinition{
			Name:        "SECURITY",
			Description: "`SECURITY` features provide metadata necessary to securely resolve fields.",
			Position:    blankPos,
		},
		&ast.EnumValueDefinition{
			Name:        "EXECUTION",
			Description: "`EXECUTION` features provide metadata necessary for operation execution.",
			Position:    blankPos,
		},
	},
	Position: blankPos,
}

var linkImport = &ast.Definition{
	Kind:     ast.Scalar,
	Name:     "Import",
	Position: blankPos,
}

var linkDirective = &ast.DirectiveDefinition{
	Name: "link",
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Name: "url",
			Type: &ast.Type{
				NamedType: "String",
			},
			Position: blankPos,
		},
		&ast.ArgumentDefinition{
			Name: "as",
			Type: &ast.Type{
				NamedType: "String",
			},
			Position: blankPos,
		},
		&ast.ArgumentDefinition{
			Name: "for",
			Type: &ast.Type{
				NamedType: linkPurpose.Name,
			},
			Position: blankPos,
		},
		&ast.ArgumentDefinition{
			Name: "import",
			Type: &ast.Type{
				Elem: &ast.Type{
					NamedType: linkImport.Name,
				},
			},
			Position: blankPos,
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationSchema,
	},
	IsRepeatable: true,
	Position:     blankPos,
}

// linkElementNames are canonical names that take the link__ namespace instead of federation__.
var linkElementNames = map[string]bool{
	linkPurpose.Name: true,
	linkImport.Name:  true,
}
