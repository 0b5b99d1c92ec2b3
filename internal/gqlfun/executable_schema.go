package gqlfun

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// CreateOperationContext parses and validates query, then coerces variables like gqlgen's executor does.
func CreateOperationContext(ctx context.Context, schema *ast.Schema, query string, operationName string, variables map[string]interface{}) (*graphql.OperationContext, gqlerror.List) {
	queryDoc, gErrs := gqlparser.LoadQuery(schema, query)
	if len(gErrs) != 0 {
		return nil, gErrs
	}

	operation := queryDoc.Operations.ForName(operationName)
	if operation == nil {
		if operationName != "" {
			return nil, gqlerror.List{gqlerror.Errorf(`unknown operation named "%s"`, operationName)}
		}
		return nil, gqlerror.List{gqlerror.Errorf("must provide an operation")}
	}

	coerced, err := validator.VariableValues(schema, operation, variables)
	if err != nil {
		return nil, gqlerror.List{gqlerror.WrapIfUnwrapped(err)}
	}

	oc := &graphql.OperationContext{
		RawQuery:             query,
		Variables:            coerced,
		OperationName:        operationName,
		Doc:                  queryDoc,
		Operation:            operation,
		DisableIntrospection: true,
		RecoverFunc:          graphql.DefaultRecover,
		ResolverMiddleware: func(ctx context.Context, next graphql.Resolver) (res interface{}, err error) {
			return next(ctx)
		},
		Stats: graphql.Stats{},
	}

	return oc, nil
}

// Execute runs query against es without the HTTP layer.
func Execute(ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]interface{}) *graphql.Response {
	return ExecuteOperation(ctx, es, query, "", variables)
}

func ExecuteOperation(ctx context.Context, es graphql.ExecutableSchema, query string, operationName string, variables map[string]interface{}) *graphql.Response {
	oc, gErrs := CreateOperationContext(ctx, es.Schema(), query, operationName, variables)
	if len(gErrs) != 0 {
		return &graphql.Response{Errors: gErrs}
	}
	ctx = graphql.WithOperationContext(ctx, oc)
	ctx = graphql.WithResponseContext(ctx, graphql.DefaultErrorPresenter, graphql.DefaultRecover)

	rh := es.Exec(ctx)
	resp := rh(ctx)
	if resp == nil {
		return &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("no response")}}
	}
	if gErrs := graphql.GetErrors(ctx); gErrs != nil {
		resp.Errors = append(resp.Errors, gErrs...)
	}
	return resp
}
