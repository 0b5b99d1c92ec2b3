package subgraph

import (
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/vvakame/fedsubgraph/internal/federation"
)

// Metadata describes how the schema was composed.
type Metadata struct {
	Federation2            bool              `json:"federation2" yaml:"federation2"`
	Version                string            `json:"version,omitempty" yaml:"version,omitempty"`
	LinkURL                string            `json:"linkUrl,omitempty" yaml:"link_url,omitempty"`
	Imports                []*ImportMetadata `json:"imports,omitempty" yaml:"imports,omitempty"`
	Entities               []*EntityMetadata `json:"entities,omitempty" yaml:"entities,omitempty"`
	QueryType              string            `json:"queryType" yaml:"query_type"`
	QueryTypeShouldBeEmpty bool              `json:"queryTypeShouldBeEmpty" yaml:"query_type_should_be_empty"`
	InjectedDirectives     []string          `json:"injectedDirectives,omitempty" yaml:"injected_directives,omitempty"`
	InjectedTypes          []string          `json:"injectedTypes,omitempty" yaml:"injected_types,omitempty"`
}

type ImportMetadata struct {
	Name string `json:"name" yaml:"name"`
	As   string `json:"as,omitempty" yaml:"as,omitempty"`
}

type EntityMetadata struct {
	Name string   `json:"name" yaml:"name"`
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

func (s *ComposedSchema) Metadata() (*Metadata, error) {
	comp := s.composition
	m := &Metadata{
		Federation2:            comp.Federation2(),
		QueryType:              comp.Schema.Query.Name,
		QueryTypeShouldBeEmpty: comp.QueryTypeShouldBeEmpty,
		InjectedDirectives:     append([]string(nil), comp.InjectedDirectives...),
		InjectedTypes:          append([]string(nil), comp.InjectedTypes...),
	}

	if link := comp.Link; link != nil {
		m.Version = link.Version.String()
		m.LinkURL = link.URL

		names := make([]string, 0, len(link.Imports))
		for name := range link.Imports {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			im := &ImportMetadata{Name: name}
			if as := link.Imports[name]; as != name {
				im.As = as
			}
			m.Imports = append(m.Imports, im)
		}
	}

	for _, name := range comp.Entities {
		keys, err := federation.KeyFields(comp.Schema.Types[name], comp.KeyDirective)
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, &EntityMetadata{
			Name: name,
			Keys: keys,
		})
	}

	return m, nil
}

// YAML returns m in YAML.
func (m *Metadata) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}
