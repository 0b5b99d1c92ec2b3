package federation

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// ImportTable maps canonical names ("@key", "FieldSet") to local names.
type ImportTable map[string]string

// DirectiveName returns the local name of the canonical directive name, without "@".
func (t ImportTable) DirectiveName(canonical string) string {
	canonical = strings.TrimPrefix(canonical, "@")
	return localName(t, canonical, true)
}

// TypeName returns the local name of the canonical type name.
func (t ImportTable) TypeName(canonical string) string {
	return localName(t, canonical, false)
}

// Link is the resolved federation @link of a schema.
type Link struct {
	URL       string
	Version   SpecVersion
	Imports   ImportTable
	Directive *ast.Directive
}

// DefinitionSet is a set of directive and type definitions injected into a schema.
type DefinitionSet struct {
	Directives ast.DirectiveDefinitionList
	Types      ast.DefinitionList
}

func (s *DefinitionSet) putDirective(def *ast.DirectiveDefinition) {
	for i, current := range s.Directives {
		if current.Name == def.Name {
			s.Directives[i] = def
			return
		}
	}
	s.Directives = append(s.Directives, def)
}

func (s *DefinitionSet) putType(def *ast.Definition) {
	for i, current := range s.Types {
		if current.Name == def.Name {
			s.Types[i] = def
			return
		}
	}
	s.Types = append(s.Types, def)
}
