package subgraph

import (
	"context"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/fedsubgraph/internal/execute"
	"github.com/vvakame/fedsubgraph/internal/federation"
)

var _ graphql.ExecutableSchema = (*ComposedSchema)(nil)

// ComposedSchema is a federation subgraph schema served by gqlgen handlers.
type ComposedSchema struct {
	composition *federation.Composition

	rootValue     interface{}
	resolvers     map[FieldCoordinates]FieldResolver
	typeResolvers map[string]TypeResolver
	typeOrder     func(a, b *ast.Definition) bool

	entityTypeResolver     EntityTypeResolver
	entitiesFetcher        EntitiesFetcher
	entitiesFetcherFactory func() EntitiesFetcher
	anyCoercion            AnyCoercion

	sdlOnce sync.Once
	sdl     string
}

func newComposedSchema(comp *federation.Composition, cfg config) *ComposedSchema {
	s := &ComposedSchema{
		composition:            comp,
		rootValue:              cfg.rootValue,
		resolvers:              make(map[FieldCoordinates]FieldResolver),
		typeResolvers:          make(map[string]TypeResolver),
		typeOrder:              cfg.typeOrder,
		entityTypeResolver:     cfg.entityTypeResolver,
		entitiesFetcher:        cfg.entitiesFetcher,
		entitiesFetcherFactory: cfg.entitiesFetcherFactory,
		anyCoercion:            cfg.anyCoercion,
	}
	if s.anyCoercion == nil {
		s.anyCoercion = defaultAnyCoercion
	}
	if cfg.wiring != nil {
		for coordinates, resolver := range cfg.wiring.Fields {
			s.resolvers[coordinates] = resolver
		}
		for typeName, resolver := range cfg.wiring.TypeResolvers {
			s.typeResolvers[typeName] = resolver
		}
	}

	queryTypeName := comp.Schema.Query.Name
	s.resolvers[Coordinates(queryTypeName, federation.ServiceFieldName)] = s.resolveService

	if len(comp.Entities) != 0 {
		coordinates := Coordinates(queryTypeName, federation.EntitiesFieldName)
		if s.resolvers[coordinates] == nil {
			s.resolvers[coordinates] = s.resolveEntities
		}
		if s.entityTypeResolver != nil {
			entityTypeResolver := s.entityTypeResolver
			s.typeResolvers[federation.EntityUnionName] = func(ctx context.Context, value interface{}) (string, error) {
				return entityTypeResolver(ctx, value)
			}
		}
	}

	return s
}

func (s *ComposedSchema) Schema() *ast.Schema {
	return s.composition.Schema
}

func (s *ComposedSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (s *ComposedSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	var once sync.Once
	return func(ctx context.Context) *graphql.Response {
		var resp *graphql.Response
		once.Do(func() {
			resp = execute.Execute(ctx, &execute.ExecutionArgs{
				Schema:        s.composition.Schema,
				RootValue:     s.rootValue,
				FieldResolver: s.resolveField,
				TypeResolver:  s.resolveType,
			})
		})
		return resp
	}
}

// SDL returns the SDL served by _service.sdl.
// Federation v1 schemas are printed without the federation definitions.
func (s *ComposedSchema) SDL() string {
	s.sdlOnce.Do(func() {
		s.sdl = s.composition.ServiceSDL(s.typeOrder)
	})
	return s.sdl
}

// Entities returns names of the entity types in ascending order.
func (s *ComposedSchema) Entities() []string {
	return append([]string(nil), s.composition.Entities...)
}

// Federation2 reports whether the schema links the federation spec by @link.
func (s *ComposedSchema) Federation2() bool {
	return s.composition.Federation2()
}

func (s *ComposedSchema) resolveField(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)
	if resolver := s.resolvers[Coordinates(fc.Object, fc.Field.Name)]; resolver != nil {
		return resolver(ctx, source, args)
	}
	return execute.DefaultFieldResolver(ctx, source, args)
}

func (s *ComposedSchema) resolveType(ctx context.Context, value interface{}, abstractType *ast.Definition) (string, error) {
	if resolver := s.typeResolvers[abstractType.Name]; resolver != nil {
		return resolver(ctx, value)
	}
	return execute.DefaultTypeResolver(ctx, value, abstractType)
}

func (s *ComposedSchema) resolveService(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"sdl": s.SDL(),
	}, nil
}

func (s *ComposedSchema) resolveEntities(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	values, ok := args[federation.RepresentationsArgumentName].([]interface{})
	if !ok && args[federation.RepresentationsArgumentName] != nil {
		return nil, gqlerror.Errorf("%s must be a list", federation.RepresentationsArgumentName)
	}

	representations := make([]map[string]interface{}, 0, len(values))
	for i, value := range values {
		representation, err := s.anyCoercion(value)
		if err != nil {
			return nil, gqlerror.Errorf("%s[%d]: %s", federation.RepresentationsArgumentName, i, err.Error())
		}
		representations = append(representations, representation)
	}

	fetcher := s.entitiesFetcher
	if s.entitiesFetcherFactory != nil {
		fetcher = s.entitiesFetcherFactory()
	}
	if fetcher == nil {
		return nil, federation.MissingEntitiesFetcher()
	}

	entities, err := fetcher(ctx, representations)
	if err != nil {
		return nil, err
	}
	if len(entities) != len(representations) {
		return nil, gqlerror.Errorf("%s returned %d entities for %d representations", federation.EntitiesFieldName, len(entities), len(representations))
	}

	return entities, nil
}
