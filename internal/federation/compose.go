package federation

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedsubgraph/internal/graphql"
	"github.com/vvakame/fedsubgraph/internal/log"
)

const (
	ServiceFieldName  = "_service"
	EntitiesFieldName = "_entities"
	ServiceTypeName   = "_Service"
	EntityUnionName   = "_Entity"
	AnyScalarName     = "_Any"

	RepresentationsArgumentName = "representations"
)

type ComposeConfig struct {
	// QueryTypeShouldBeEmpty serves and prints the query type without the caller's fields.
	QueryTypeShouldBeEmpty bool
}

// Composition is the result of Compose.
type Composition struct {
	// Link is nil for federation v1 schemas.
	Link *Link
	// Document is the caller's document with federation definitions injected.
	Document *ast.SchemaDocument
	// Schema has the _service and _entities surface.
	Schema *ast.Schema

	Entities               []string
	KeyDirective           string
	QueryTypeShouldBeEmpty bool
	InjectedDirectives     []string
	InjectedTypes          []string
}

func (c *Composition) Federation2() bool {
	return c.Link != nil
}

// Compose turns doc into a federation subgraph schema. doc is not modified.
func Compose(ctx context.Context, doc *ast.SchemaDocument, cfg *ComposeConfig) (*Composition, error) {
	ctx, logger := log.WithName(ctx, "federation")
	if cfg == nil {
		cfg = &ComposeConfig{}
	}

	link, err := ResolveLink(ctx, doc)
	if err != nil {
		return nil, err
	}

	var set *DefinitionSet
	keyName := keyDirective.Name
	if link == nil {
		set = V1Definitions()
	} else {
		set, err = RenameDefinitions(SpecDefinitions(link.Version), link.Imports)
		if err != nil {
			return nil, err
		}
		keyName = link.Imports.DirectiveName("@key")
	}

	working := cloneDocument(doc)
	injectedDirectives, injectedTypes := injectDefinitions(working, set)
	logger.V(1).Info("definitions injected", "directives", injectedDirectives, "types", injectedTypes)

	queryTypeShouldBeEmpty := ensureQueryType(working) || cfg.QueryTypeShouldBeEmpty

	base, err := buildBaseSchema(cloneDocument(working))
	if err != nil {
		return nil, err
	}

	entities, err := DetectEntities(base, keyName)
	if err != nil {
		return nil, err
	}
	logger.V(1).Info("entities detected", "entities", entities)

	return &Composition{
		Link:                   link,
		Document:               working,
		Schema:                 composeSchema(base, queryTypeShouldBeEmpty, entities),
		Entities:               entities,
		KeyDirective:           keyName,
		QueryTypeShouldBeEmpty: queryTypeShouldBeEmpty,
		InjectedDirectives:     injectedDirectives,
		InjectedTypes:          injectedTypes,
	}, nil
}

// composeSchema returns a new schema that shares definitions with base except the query type.
func composeSchema(base *ast.Schema, queryTypeShouldBeEmpty bool, entities []string) *ast.Schema {
	schema := &ast.Schema{
		Mutation:      base.Mutation,
		Subscription:  base.Subscription,
		Types:         make(map[string]*ast.Definition, len(base.Types)+4),
		Directives:    make(map[string]*ast.DirectiveDefinition, len(base.Directives)),
		PossibleTypes: make(map[string][]*ast.Definition, len(base.PossibleTypes)+2),
		Implements:    make(map[string][]*ast.Definition, len(base.Implements)),
		Description:   base.Description,
		Comment:       base.Comment,
	}
	for name, def := range base.Types {
		schema.Types[name] = def
	}
	for name, def := range base.Directives {
		schema.Directives[name] = def
	}

	query := *base.Query
	replace := func(defs []*ast.Definition) []*ast.Definition {
		copied := make([]*ast.Definition, 0, len(defs))
		for _, def := range defs {
			if def == base.Query {
				def = &query
			}
			copied = append(copied, def)
		}
		return copied
	}
	for name, defs := range base.PossibleTypes {
		schema.PossibleTypes[name] = replace(defs)
	}
	for name, defs := range base.Implements {
		schema.Implements[name] = replace(defs)
	}
	if schema.Mutation == base.Query {
		schema.Mutation = &query
	}
	if schema.Subscription == base.Query {
		schema.Subscription = &query
	}

	var fields, metaFields ast.FieldList
	for _, field := range base.Query.Fields {
		if graphql.IsMetaField(field.Name) {
			metaFields = append(metaFields, field)
		} else if !queryTypeShouldBeEmpty {
			fields = append(fields, field)
		}
	}

	serviceType := &ast.Definition{
		Kind: ast.Object,
		Name: ServiceTypeName,
		Fields: ast.FieldList{
			{
				Name:     "sdl",
				Type:     ast.NonNullNamedType("String", blankPos),
				Position: blankPos,
			},
		},
		Position: blankPos,
	}
	schema.AddTypes(serviceType)
	schema.PossibleTypes[serviceType.Name] = []*ast.Definition{serviceType}
	fields = append(fields, &ast.FieldDefinition{
		Name:     ServiceFieldName,
		Type:     ast.NonNullNamedType(serviceType.Name, blankPos),
		Position: blankPos,
	})

	if len(entities) != 0 {
		anyScalar := schema.Types[AnyScalarName]
		if anyScalar == nil {
			anyScalar = &ast.Definition{
				Kind:     ast.Scalar,
				Name:     AnyScalarName,
				Position: blankPos,
			}
			schema.AddTypes(anyScalar)
		}

		entityUnion := &ast.Definition{
			Kind:     ast.Union,
			Name:     EntityUnionName,
			Types:    append([]string(nil), entities...),
			Position: blankPos,
		}
		schema.AddTypes(entityUnion)
		for _, name := range entities {
			def := schema.Types[name]
			schema.AddPossibleType(entityUnion.Name, def)
			schema.Implements[name] = append(append([]*ast.Definition(nil), schema.Implements[name]...), entityUnion)
		}

		fields = append(fields, &ast.FieldDefinition{
			Name: EntitiesFieldName,
			Arguments: ast.ArgumentDefinitionList{
				{
					Name:     RepresentationsArgumentName,
					Type:     ast.NonNullListType(ast.NonNullNamedType(anyScalar.Name, blankPos), blankPos),
					Position: blankPos,
				},
			},
			Type:     ast.NonNullListType(ast.NamedType(entityUnion.Name, blankPos), blankPos),
			Position: blankPos,
		})
	}

	query.Fields = append(fields, metaFields...)
	schema.Query = &query
	schema.Types[query.Name] = &query

	return schema
}

// CheckEntityResolvers reports every resolver missing for the entities surface at once.
func CheckEntityResolvers(entities []string, hasTypeResolver, hasEntitiesFetcher bool) error {
	if len(entities) == 0 {
		return nil
	}

	var result *multierror.Error
	if !hasTypeResolver {
		result = multierror.Append(result, MissingEntityTypeResolver())
	}
	if !hasEntitiesFetcher {
		result = multierror.Append(result, MissingEntitiesFetcher())
	}

	return result.ErrorOrNil()
}
