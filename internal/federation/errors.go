package federation

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/fedsubgraph/internal/printer"
)

// error codes used in gqlerror.Error.Extensions["code"] for collectible errors.
const (
	CodeMissingEntityTypeResolver = "MISSING_ENTITY_TYPE_RESOLVER"
	CodeMissingEntitiesFetcher    = "MISSING_ENTITIES_FETCHER"
)

// MultipleFederationLinksError is returned when a schema links the federation spec more than once.
type MultipleFederationLinksError struct {
	Directives ast.DirectiveList
}

func (e *MultipleFederationLinksError) Error() string {
	links := make([]string, 0, len(e.Directives))
	for _, directive := range e.Directives {
		links = append(links, printer.FormatDirective(directive))
	}
	return fmt.Sprintf("Schema imports multiple federation specs: %s", strings.Join(links, ", "))
}

type UnsupportedFederationVersionError struct {
	URL string
}

func (e *UnsupportedFederationVersionError) Error() string {
	return fmt.Sprintf("Specified federation spec = %s is currently not supported", e.URL)
}

// UnsupportedLinkImportError reports a malformed import entry,
// or a feature imported from a federation version that doesn't define it yet.
type UnsupportedLinkImportError struct {
	Import string
	// Feature is true when Import is well-formed but requires a newer version.
	Feature bool
}

func (e *UnsupportedLinkImportError) Error() string {
	if e.Feature {
		return fmt.Sprintf("New Federation feature %s imported using old Federation version", e.Import)
	}
	return fmt.Sprintf("Unsupported import: %s", e.Import)
}

type UnsupportedRenameError struct {
	Name string
}

func (e *UnsupportedRenameError) Error() string {
	return fmt.Sprintf("Current version of Apollo Federation does not allow renaming %s directive.", e.Name)
}

// MissingKeyError is returned when an object implements a keyed interface without covering its keys.
type MissingKeyError struct {
	ObjectName    string
	InterfaceName string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Object %s does not specify @key fields specified by its interface %s", e.ObjectName, e.InterfaceName)
}

func newCodedError(code string, format string, args ...interface{}) *gqlerror.Error {
	gErr := gqlerror.Errorf(format, args...)
	if gErr.Extensions == nil {
		gErr.Extensions = make(map[string]interface{})
	}
	gErr.Extensions["code"] = code
	return gErr
}

// MissingEntityTypeResolver returns the collectible error raised when entities exist but nothing resolves _Entity.
func MissingEntityTypeResolver() *gqlerror.Error {
	return newCodedError(CodeMissingEntityTypeResolver, "Missing a type resolver for _Entity")
}

// MissingEntitiesFetcher returns the collectible error raised when entities exist but nothing fetches _entities.
func MissingEntitiesFetcher() *gqlerror.Error {
	return newCodedError(CodeMissingEntitiesFetcher, "Missing a data fetcher for _entities")
}
