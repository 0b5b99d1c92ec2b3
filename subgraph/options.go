package subgraph

import (
	"github.com/go-logr/logr"
	"github.com/vektah/gqlparser/v2/ast"
)

type Option func(cfg *config)

type config struct {
	wiring                 *Wiring
	rootValue              interface{}
	entityTypeResolver     EntityTypeResolver
	entitiesFetcher        EntitiesFetcher
	entitiesFetcherFactory func() EntitiesFetcher
	anyCoercion            AnyCoercion
	queryTypeShouldBeEmpty bool
	typeOrder              func(a, b *ast.Definition) bool
	logger                 *logr.Logger
}

func WithWiring(wiring *Wiring) Option {
	return func(cfg *config) {
		cfg.wiring = wiring
	}
}

// WithRootValue sets the source value of the root operation types.
func WithRootValue(rootValue interface{}) Option {
	return func(cfg *config) {
		cfg.rootValue = rootValue
	}
}

func WithEntityTypeResolver(resolver EntityTypeResolver) Option {
	return func(cfg *config) {
		cfg.entityTypeResolver = resolver
	}
}

func WithEntitiesFetcher(fetcher EntitiesFetcher) Option {
	return func(cfg *config) {
		cfg.entitiesFetcher = fetcher
	}
}

// WithEntitiesFetcherFactory sets a factory called on every _entities request.
// It takes precedence over WithEntitiesFetcher.
func WithEntitiesFetcherFactory(factory func() EntitiesFetcher) Option {
	return func(cfg *config) {
		cfg.entitiesFetcherFactory = factory
	}
}

// WithAnyCoercion replaces the coercion of _Any values.
// The default accepts only objects.
func WithAnyCoercion(coercion AnyCoercion) Option {
	return func(cfg *config) {
		cfg.anyCoercion = coercion
	}
}

// WithQueryTypeShouldBeEmpty hides the fields of the query type from _service.sdl and execution.
// It is turned on automatically when the query type has no fields.
func WithQueryTypeShouldBeEmpty(empty bool) Option {
	return func(cfg *config) {
		cfg.queryTypeShouldBeEmpty = empty
	}
}

// WithTypeOrder sets the order of type definitions in _service.sdl. The default is by name.
func WithTypeOrder(less func(a, b *ast.Definition) bool) Option {
	return func(cfg *config) {
		cfg.typeOrder = less
	}
}

// WithLogger overrides the logger of the context passed to Build.
func WithLogger(logger logr.Logger) Option {
	return func(cfg *config) {
		cfg.logger = &logger
	}
}
