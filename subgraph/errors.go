package subgraph

import (
	"github.com/vvakame/fedsubgraph/internal/federation"
)

type (
	MultipleFederationLinksError      = federation.MultipleFederationLinksError
	UnsupportedFederationVersionError = federation.UnsupportedFederationVersionError
	UnsupportedLinkImportError        = federation.UnsupportedLinkImportError
	UnsupportedRenameError            = federation.UnsupportedRenameError
	MissingKeyError                   = federation.MissingKeyError
)

// error codes of the errors reported by Build at once, in gqlerror.Error.Extensions["code"].
const (
	CodeMissingEntityTypeResolver = federation.CodeMissingEntityTypeResolver
	CodeMissingEntitiesFetcher    = federation.CodeMissingEntitiesFetcher
)
