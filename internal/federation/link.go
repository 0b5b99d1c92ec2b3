package federation

import (
	"context"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedsubgraph/internal/log"
)

// ResolveLink finds the @link importing the federation spec from the schema definition and schema extensions.
// It returns nil when doc doesn't link federation, which means federation v1.
func ResolveLink(ctx context.Context, doc *ast.SchemaDocument) (*Link, error) {
	logger := log.FromContext(ctx)

	var links ast.DirectiveList
	for _, schemaDef := range doc.Schema {
		links = append(links, findFederationLinks(schemaDef)...)
	}
	for _, schemaExt := range doc.SchemaExtension {
		links = append(links, findFederationLinks(schemaExt)...)
	}

	switch len(links) {
	case 0:
		logger.V(1).Info("federation @link not found, use federation v1")
		return nil, nil
	case 1:
	default:
		return nil, &MultipleFederationLinksError{Directives: links}
	}

	directive := links[0]
	url := directive.Arguments.ForName("url").Value.Raw
	version, err := ParseSpecVersion(url)
	if err != nil {
		return nil, err
	}
	if version.Major != 2 {
		return nil, &UnsupportedFederationVersionError{URL: url}
	}

	imports, err := parseLinkImports(directive)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := checkFeatureAvailable(version, name); err != nil {
			return nil, err
		}
	}
	if err := checkRenames(imports); err != nil {
		return nil, err
	}

	logger.V(1).Info("federation @link resolved", "version", version.String(), "imports", len(imports))

	return &Link{
		URL:       url,
		Version:   version,
		Imports:   imports,
		Directive: directive,
	}, nil
}

func findFederationLinks(schemaDef *ast.SchemaDefinition) ast.DirectiveList {
	var links ast.DirectiveList
	for _, directive := range schemaDef.Directives.ForNames("link") {
		arg := directive.Arguments.ForName("url")
		if arg == nil || !isStringValue(arg.Value) {
			continue
		}
		if strings.HasPrefix(arg.Value.Raw, FederationSpecURLPrefix) {
			links = append(links, directive)
		}
	}
	return links
}

func parseLinkImports(directive *ast.Directive) (ImportTable, error) {
	imports := make(ImportTable)

	var entries []*ast.Value
	if arg := directive.Arguments.ForName("import"); arg != nil && arg.Value != nil {
		switch arg.Value.Kind {
		case ast.ListValue:
			for _, child := range arg.Value.Children {
				entries = append(entries, child.Value)
			}
		case ast.NullValue:
		default:
			// single value is coerced to a list of one element
			entries = append(entries, arg.Value)
		}
	}

	for _, entry := range entries {
		switch entry.Kind {
		case ast.StringValue, ast.BlockValue:
			imports[entry.Raw] = entry.Raw

		case ast.ObjectValue:
			name := entry.Children.ForName("name")
			if !isStringValue(name) {
				return nil, &UnsupportedLinkImportError{Import: entry.String()}
			}
			as := entry.Children.ForName("as")
			if as == nil {
				imports[name.Raw] = name.Raw
				continue
			}
			if !isStringValue(as) {
				return nil, &UnsupportedLinkImportError{Import: entry.String()}
			}
			if strings.HasPrefix(name.Raw, "@") != strings.HasPrefix(as.Raw, "@") {
				// directives must be renamed to directives, types to types
				return nil, &UnsupportedLinkImportError{Import: entry.String()}
			}
			imports[name.Raw] = as.Raw

		default:
			return nil, &UnsupportedLinkImportError{Import: entry.String()}
		}
	}

	imports["@link"] = "@link"

	return imports, nil
}

func isStringValue(value *ast.Value) bool {
	if value == nil {
		return false
	}
	return value.Kind == ast.StringValue || value.Kind == ast.BlockValue
}
