package subgraph

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/fedsubgraph/internal/federation"
	"github.com/vvakame/fedsubgraph/internal/log"
)

// Transformer turns a schema document into a federation subgraph schema.
type Transformer struct {
	doc *ast.SchemaDocument
	cfg config
}

// Transform returns a Transformer of doc. doc is never modified.
func Transform(doc *ast.SchemaDocument, opts ...Option) *Transformer {
	t := &Transformer{
		doc: doc,
	}
	return t.With(opts...)
}

// TransformSource parses sources as one schema document and returns its Transformer.
func TransformSource(sources ...*ast.Source) (*Transformer, error) {
	doc, err := parser.ParseSchemas(sources...)
	if err != nil {
		return nil, err
	}
	return Transform(doc), nil
}

func (t *Transformer) With(opts ...Option) *Transformer {
	for _, opt := range opts {
		opt(&t.cfg)
	}
	return t
}

func (t *Transformer) ResolveEntityType(resolver EntityTypeResolver) *Transformer {
	return t.With(WithEntityTypeResolver(resolver))
}

func (t *Transformer) FetchEntities(fetcher EntitiesFetcher) *Transformer {
	return t.With(WithEntitiesFetcher(fetcher))
}

// Build composes the subgraph schema.
// When the schema has entities but resolvers of _Entity or _entities are missing,
// all of them are reported together as *multierror.Error.
func (t *Transformer) Build(ctx context.Context) (*ComposedSchema, error) {
	if t.doc == nil {
		return nil, fmt.Errorf("schema document is required")
	}
	if t.cfg.logger != nil {
		ctx = log.WithLogger(ctx, *t.cfg.logger)
	}
	ctx, logger := log.WithName(ctx, "subgraph")

	comp, err := federation.Compose(ctx, t.doc, &federation.ComposeConfig{
		QueryTypeShouldBeEmpty: t.cfg.queryTypeShouldBeEmpty,
	})
	if err != nil {
		return nil, err
	}

	queryTypeName := comp.Schema.Query.Name
	hasTypeResolver := t.cfg.entityTypeResolver != nil || t.cfg.wiring.typeResolver(federation.EntityUnionName) != nil
	hasEntitiesFetcher := t.cfg.entitiesFetcher != nil || t.cfg.entitiesFetcherFactory != nil ||
		t.cfg.wiring.fieldResolver(Coordinates(queryTypeName, federation.EntitiesFieldName)) != nil

	err = federation.CheckEntityResolvers(comp.Entities, hasTypeResolver, hasEntitiesFetcher)
	if err != nil {
		return nil, err
	}

	cs := newComposedSchema(comp, t.cfg)
	logger.V(1).Info("subgraph schema built", "federation2", comp.Federation2(), "entities", comp.Entities)

	return cs, nil
}
