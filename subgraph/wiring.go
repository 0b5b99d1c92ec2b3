package subgraph

import (
	"context"
	"fmt"
)

// FieldCoordinates points a field of an object type, like Query.product.
type FieldCoordinates struct {
	TypeName  string
	FieldName string
}

func Coordinates(typeName, fieldName string) FieldCoordinates {
	return FieldCoordinates{
		TypeName:  typeName,
		FieldName: fieldName,
	}
}

func (c FieldCoordinates) String() string {
	return fmt.Sprintf("%s.%s", c.TypeName, c.FieldName)
}

// FieldResolver returns the value of a field.
// graphql.GetFieldContext(ctx) gives the field being resolved.
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// TypeResolver returns the object type name of value for an interface or union.
type TypeResolver func(ctx context.Context, value interface{}) (string, error)

// EntityTypeResolver returns the object type name of an entity returned by EntitiesFetcher.
type EntityTypeResolver func(ctx context.Context, entity interface{}) (string, error)

// EntitiesFetcher returns entities for representations of _entities.
// The result must have the same length and order as representations, nil items are returned as null.
type EntitiesFetcher func(ctx context.Context, representations []map[string]interface{}) ([]interface{}, error)

// AnyCoercion converts a value of _Any into a representation.
type AnyCoercion func(value interface{}) (map[string]interface{}, error)

// Wiring has resolvers of the caller's schema.
// Fields without resolver read the property of the source value named as the field.
type Wiring struct {
	Fields        map[FieldCoordinates]FieldResolver
	TypeResolvers map[string]TypeResolver
}

func (w *Wiring) fieldResolver(coordinates FieldCoordinates) FieldResolver {
	if w == nil {
		return nil
	}
	return w.Fields[coordinates]
}

func (w *Wiring) typeResolver(typeName string) TypeResolver {
	if w == nil {
		return nil
	}
	return w.TypeResolvers[typeName]
}

func defaultAnyCoercion(value interface{}) (map[string]interface{}, error) {
	representation, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("representation must be an object, got %T", value)
	}
	return representation, nil
}
