package federation

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedsubgraph/internal/graphql"
)

const (
	federationNamespace = "federation__"
	linkNamespace       = "link__"
)

// nonRenamableDirectives may be imported but must keep their canonical name.
var nonRenamableDirectives = []string{"@tag", "@inaccessible"}

func localName(imports ImportTable, name string, isDirective bool) string {
	key := name
	if isDirective {
		key = "@" + name
	}

	if !isDirective && graphql.IsSpecifiedScalarType(name) {
		return name
	}

	if alias, ok := imports[key]; ok {
		if isDirective {
			return strings.TrimPrefix(alias, "@")
		}
		return alias
	}

	switch {
	case name == "tag" || name == "inaccessible":
		return name
	case linkElementNames[name]:
		return linkNamespace + name
	default:
		return federationNamespace + name
	}
}

func checkRenames(imports ImportTable) error {
	for _, name := range nonRenamableDirectives {
		alias, ok := imports[name]
		if ok && alias != name {
			return &UnsupportedRenameError{Name: name}
		}
	}
	return nil
}

// RenameDefinitions returns set with every definition and type reference renamed according to imports.
// set is not modified. Nodes that keep their name are shared with set.
func RenameDefinitions(set *DefinitionSet, imports ImportTable) (*DefinitionSet, error) {
	if err := checkRenames(imports); err != nil {
		return nil, err
	}

	r := &renamer{imports: imports}
	renamed := &DefinitionSet{
		Directives: make(ast.DirectiveDefinitionList, 0, len(set.Directives)),
		Types:      make(ast.DefinitionList, 0, len(set.Types)),
	}
	for _, def := range set.Directives {
		renamed.Directives = append(renamed.Directives, r.rename(def).(*ast.DirectiveDefinition))
	}
	for _, def := range set.Types {
		renamed.Types = append(renamed.Types, r.rename(def).(*ast.Definition))
	}

	return renamed, nil
}

type renamer struct {
	imports ImportTable
}

// rename returns node itself when nothing below it changes.
func (r *renamer) rename(node interface{}) interface{} {
	switch node := node.(type) {
	case *ast.DirectiveDefinition:
		name := localName(r.imports, node.Name, true)
		args := r.renameArguments(node.Arguments)
		if name == node.Name && sameArgumentDefinitions(args, node.Arguments) {
			return node
		}
		copied := *node
		copied.Name = name
		copied.Arguments = args
		return &copied

	case *ast.Definition:
		name := localName(r.imports, node.Name, false)
		fields := r.renameFields(node.Fields)
		if name == node.Name && sameFieldDefinitions(fields, node.Fields) {
			return node
		}
		copied := *node
		copied.Name = name
		copied.Fields = fields
		return &copied

	case *ast.FieldDefinition:
		typ := r.rename(node.Type).(*ast.Type)
		args := r.renameArguments(node.Arguments)
		if typ == node.Type && sameArgumentDefinitions(args, node.Arguments) {
			return node
		}
		copied := *node
		copied.Type = typ
		copied.Arguments = args
		return &copied

	case *ast.ArgumentDefinition:
		typ := r.rename(node.Type).(*ast.Type)
		if typ == node.Type {
			return node
		}
		copied := *node
		copied.Type = typ
		return &copied

	case *ast.Type:
		if node == nil {
			return node
		}
		if node.Elem != nil {
			elem := r.rename(node.Elem).(*ast.Type)
			if elem == node.Elem {
				return node
			}
			copied := *node
			copied.Elem = elem
			return &copied
		}
		name := localName(r.imports, node.NamedType, false)
		if name == node.NamedType {
			return node
		}
		copied := *node
		copied.NamedType = name
		return &copied

	default:
		panic(fmt.Sprintf("unexpected node type: %T", node))
	}
}

func (r *renamer) renameArguments(args ast.ArgumentDefinitionList) ast.ArgumentDefinitionList {
	if len(args) == 0 {
		return args
	}
	renamed := make(ast.ArgumentDefinitionList, 0, len(args))
	for _, arg := range args {
		renamed = append(renamed, r.rename(arg).(*ast.ArgumentDefinition))
	}
	if sameArgumentDefinitions(renamed, args) {
		return args
	}
	return renamed
}

func (r *renamer) renameFields(fields ast.FieldList) ast.FieldList {
	if len(fields) == 0 {
		return fields
	}
	renamed := make(ast.FieldList, 0, len(fields))
	for _, field := range fields {
		renamed = append(renamed, r.rename(field).(*ast.FieldDefinition))
	}
	if sameFieldDefinitions(renamed, fields) {
		return fields
	}
	return renamed
}

func sameArgumentDefinitions(a, b ast.ArgumentDefinitionList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameFieldDefinitions(a, b ast.FieldList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
