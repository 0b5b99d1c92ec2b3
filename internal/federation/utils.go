package federation

import (
	"bytes"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// for formatter
var blankPos = &ast.Position{
	Src: &ast.Source{
		BuiltIn: false,
	},
}

// @param source A string representing a FieldSet
// @returns A parsed FieldSet
func parseSelections(source string) (ast.SelectionSet, error) {
	queryDocument, gErr := parser.ParseQuery(&ast.Source{
		Input: "{" + source + "}",
	})
	if gErr != nil {
		return nil, gErr
	}

	// TODO position should be strip
	return queryDocument.Operations[0].SelectionSet, nil
}

func findDirectivesOnNode(node *ast.Definition, directiveName string) ast.DirectiveList {
	var directiveList ast.DirectiveList
	for _, directive := range node.Directives {
		if directive.Name == directiveName {
			directiveList = append(directiveList, directive)
		}
	}

	return directiveList
}

// KeyFields returns normalized field sets of @key directives on def.
func KeyFields(def *ast.Definition, keyDirective string) ([]string, error) {
	var keys []string
	for _, directive := range findDirectivesOnNode(def, keyDirective) {
		arg := directive.Arguments.ForName("fields")
		if arg == nil || !isStringValue(arg.Value) {
			continue
		}
		selections, err := parseSelections(arg.Value.Raw)
		if err != nil {
			return nil, err
		}
		keys = append(keys, printSelectionSet(selections))
	}
	return keys, nil
}

func printSelectionSet(selections ast.SelectionSet) string {
	// alias とかはサポートしない…一旦… めんどいから…

	var buf bytes.Buffer

	pad := func() {
		if buf.Len() != 0 {
			buf.WriteString(" ")
		}
	}
	var p func(selections ast.SelectionSet)
	p = func(selections ast.SelectionSet) {
		for _, selection := range selections {
			switch v := selection.(type) {
			case *ast.Field:
				pad()
				buf.WriteString(v.Name)
				if len(v.SelectionSet) != 0 {
					pad()
					buf.WriteString("{")
					p(v.SelectionSet)
					pad()
					buf.WriteString("}")
				}

			case *ast.InlineFragment:
				pad()
				buf.WriteString("... on ")
				buf.WriteString(v.TypeCondition)
				pad()
				buf.WriteString("{")
				p(v.SelectionSet)
				pad()
				buf.WriteString("}")

			case *ast.FragmentSpread:
				pad()
				buf.WriteString("...")
				buf.WriteString(v.Name)

			default:
				panic(fmt.Errorf("unsupported Selection type: %T", selection))
			}
		}
	}

	p(selections)

	return buf.String()
}
