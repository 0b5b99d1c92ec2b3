package federation

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// specRelease holds definitions added or changed by a federation v2 release.
// A definition in a later release supersedes the one with the same name.
type specRelease struct {
	since SpecVersion
	sdl   string
	doc   *ast.SchemaDocument
}

var federationReleases = []*specRelease{
	{
		since: SpecVersion{Major: 2, Minor: 0},
		sdl: `
directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
directive @requires(fields: FieldSet!) on FIELD_DEFINITION
directive @provides(fields: FieldSet!) on FIELD_DEFINITION
directive @external(reason: String) on OBJECT | FIELD_DEFINITION
directive @tag(name: String!) repeatable on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION
directive @extends on OBJECT | INTERFACE
directive @shareable on OBJECT | FIELD_DEFINITION
directive @inaccessible on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION
directive @override(from: String!) on FIELD_DEFINITION
scalar FieldSet
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 1},
		sdl: `
directive @composeDirective(name: String!) repeatable on SCHEMA
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 2},
		sdl: `
directive @shareable repeatable on OBJECT | FIELD_DEFINITION
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 3},
		sdl: `
directive @interfaceObject on OBJECT
directive @tag(name: String!) repeatable on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION | SCHEMA
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 5},
		sdl: `
directive @authenticated on FIELD_DEFINITION | OBJECT | INTERFACE | SCALAR | ENUM
directive @requiresScopes(scopes: [[Scope!]!]!) on FIELD_DEFINITION | OBJECT | INTERFACE | SCALAR | ENUM
scalar Scope
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 6},
		sdl: `
directive @policy(policies: [[Policy!]!]!) on FIELD_DEFINITION | OBJECT | INTERFACE | SCALAR | ENUM
scalar Policy
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 7},
		sdl: `
directive @override(from: String!, label: String) on FIELD_DEFINITION
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 8},
		sdl: `
directive @context(name: String!) repeatable on INTERFACE | OBJECT | UNION
directive @fromContext(field: ContextFieldValue) on ARGUMENT_DEFINITION
scalar ContextFieldValue
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 9},
		sdl: `
directive @cost(weight: Int!) on ARGUMENT_DEFINITION | ENUM | FIELD_DEFINITION | INPUT_FIELD_DEFINITION | OBJECT | SCALAR
directive @listSize(assumedSize: Int, slicingArguments: [String!], sizedFields: [String!], requireOneSlicingArgument: Boolean = true) on FIELD_DEFINITION
`,
	},
	{
		since: SpecVersion{Major: 2, Minor: 12},
		sdl: `
directive @cacheTag(format: String!) repeatable on OBJECT | INTERFACE | FIELD_DEFINITION
`,
	},
}

// introducedIn maps canonical import names (@directive or Type) to the release that added them.
var introducedIn = map[string]SpecVersion{}

func init() {
	for _, release := range federationReleases {
		doc, gErr := parser.ParseSchema(&ast.Source{
			Name:  fmt.Sprintf("federation-%s.graphqls", release.since),
			Input: release.sdl,
		})
		if gErr != nil {
			panic(gErr)
		}
		release.doc = doc

		for _, def := range doc.Directives {
			if _, ok := introducedIn["@"+def.Name]; !ok {
				introducedIn["@"+def.Name] = release.since
			}
		}
		for _, def := range doc.Definitions {
			if _, ok := introducedIn[def.Name]; !ok {
				introducedIn[def.Name] = release.since
			}
		}
	}
}

// SpecDefinitions returns fresh copies of the link and federation definitions available at version,
// under their canonical names.
func SpecDefinitions(version SpecVersion) *DefinitionSet {
	set := &DefinitionSet{}
	set.putDirective(cloneDirectiveDefinition(linkDirective))
	set.putType(cloneDefinition(linkPurpose))
	set.putType(cloneDefinition(linkImport))

	for _, release := range federationReleases {
		if !version.AtLeast(release.since) {
			break
		}
		for _, def := range release.doc.Directives {
			set.putDirective(cloneDirectiveDefinition(def))
		}
		for _, def := range release.doc.Definitions {
			set.putType(cloneDefinition(def))
		}
	}

	return set
}

// checkFeatureAvailable reports imports of elements newer than version.
func checkFeatureAvailable(version SpecVersion, name string) error {
	since, ok := introducedIn[name]
	if !ok {
		return nil
	}
	if !version.AtLeast(since) {
		return &UnsupportedLinkImportError{Import: name, Feature: true}
	}
	return nil
}
