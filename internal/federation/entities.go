package federation

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// DetectEntities returns sorted names of object types which are federation entities.
// An object is an entity when it has @key by itself or implements an interface that has @key.
// keyDirective is the local name of @key directive.
func DetectEntities(schema *ast.Schema, keyDirective string) ([]string, error) {
	typeNames := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	keyed := make(map[string]bool)
	for _, name := range typeNames {
		def := schema.Types[name]
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		if len(findDirectivesOnNode(def, keyDirective)) != 0 {
			keyed[name] = true
		}
	}

	var entities []string
	for _, name := range typeNames {
		def := schema.Types[name]
		if def.Kind != ast.Object {
			continue
		}

		entity := keyed[name]
		for _, interfaceName := range def.Interfaces {
			if !keyed[interfaceName] {
				continue
			}
			entity = true

			err := checkKeyCoverage(def, schema.Types[interfaceName], keyDirective)
			if err != nil {
				return nil, err
			}
		}

		if entity {
			entities = append(entities, name)
		}
	}

	return entities, nil
}

// checkKeyCoverage checks every key of iface is satisfied by a key of object with same or more fields.
func checkKeyCoverage(object, iface *ast.Definition, keyDirective string) error {
	objectKeys, err := keyFieldPaths(object, keyDirective)
	if err != nil {
		return err
	}
	interfaceKeys, err := keyFieldPaths(iface, keyDirective)
	if err != nil {
		return err
	}

	for _, interfaceKey := range interfaceKeys {
		covered := false
		for _, objectKey := range objectKeys {
			if objectKey.covers(interfaceKey) {
				covered = true
				break
			}
		}
		if !covered {
			return &MissingKeyError{ObjectName: object.Name, InterfaceName: iface.Name}
		}
	}

	return nil
}

// fieldPaths is a set of leaf paths of a field set, like "id" or "variation.id".
type fieldPaths map[string]bool

func (p fieldPaths) covers(other fieldPaths) bool {
	for path := range other {
		if !p[path] {
			return false
		}
	}
	return true
}

func keyFieldPaths(def *ast.Definition, keyDirective string) ([]fieldPaths, error) {
	var result []fieldPaths
	for _, directive := range findDirectivesOnNode(def, keyDirective) {
		arg := directive.Arguments.ForName("fields")
		if arg == nil || !isStringValue(arg.Value) {
			return nil, gqlerror.ErrorPosf(directive.Position, "@%s on %s must have fields argument", keyDirective, def.Name)
		}

		selections, err := parseSelections(arg.Value.Raw)
		if err != nil {
			return nil, gqlerror.ErrorPosf(directive.Position, "@%s on %s has invalid fields %q: %s", keyDirective, def.Name, arg.Value.Raw, err.Error())
		}

		paths := make(fieldPaths)
		collectFieldPaths(paths, "", selections)
		result = append(result, paths)
	}
	return result, nil
}

func collectFieldPaths(paths fieldPaths, prefix string, selections ast.SelectionSet) {
	for _, selection := range selections {
		switch selection := selection.(type) {
		case *ast.Field:
			path := selection.Name
			if prefix != "" {
				path = prefix + "." + path
			}
			if len(selection.SelectionSet) == 0 {
				paths[path] = true
				continue
			}
			collectFieldPaths(paths, path, selection.SelectionSet)

		case *ast.InlineFragment:
			collectFieldPaths(paths, prefix, selection.SelectionSet)

		case *ast.FragmentSpread:
			// field sets don't define fragments
		}
	}
}
