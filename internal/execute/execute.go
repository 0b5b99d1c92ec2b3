package execute

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/fedsubgraph/internal/log"
	"github.com/vvakame/fedsubgraph/internal/utils"
)

// executes an operation of graphql.OperationContext against *ast.Schema.
// it is a reduced version of graphql-js execute, resolvers are plain functions keyed by the caller.

// FieldResolver returns the value of the field in ctx. graphql.GetFieldContext(ctx) gives the field.
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// TypeResolver returns the object type name of value for abstractType.
type TypeResolver func(ctx context.Context, value interface{}, abstractType *ast.Definition) (string, error)

var _ FieldResolver = DefaultFieldResolver
var _ TypeResolver = DefaultTypeResolver

type ExecutionArgs struct {
	Schema        *ast.Schema
	RootValue     interface{}   // optional
	FieldResolver FieldResolver // optional
	TypeResolver  TypeResolver  // optional
}

type ExecutionContext struct {
	Schema         *ast.Schema
	RootValue      interface{}
	Operation      *ast.OperationDefinition
	VariableValues map[string]interface{}
	FieldResolver  FieldResolver
	TypeResolver   TypeResolver

	mu     sync.Mutex
	errors gqlerror.List
}

// errNullPropagation reports a null in a non-null position whose error is already recorded.
var errNullPropagation = errors.New("null propagation")

func (exeContext *ExecutionContext) addError(ctx context.Context, err error) {
	if err == nil || err == errNullPropagation {
		return
	}

	var path ast.Path
	if fc := graphql.GetFieldContext(ctx); fc != nil {
		path = fc.Path()
	}

	var gErr *gqlerror.Error
	if !errors.As(err, &gErr) {
		gErr = gqlerror.WrapPath(path, err)
	} else if gErr.Path == nil {
		copied := *gErr
		copied.Path = path
		gErr = &copied
	}

	exeContext.mu.Lock()
	exeContext.errors = append(exeContext.errors, gErr)
	exeContext.mu.Unlock()
}

func (exeContext *ExecutionContext) Errors() gqlerror.List {
	exeContext.mu.Lock()
	defer exeContext.mu.Unlock()

	return append(gqlerror.List(nil), exeContext.errors...)
}

// Execute runs the operation held by graphql.OperationContext of ctx.
// Variables of the OperationContext must be coerced already.
func Execute(ctx context.Context, args *ExecutionArgs) *graphql.Response {
	if !graphql.HasOperationContext(ctx) {
		panic("ctx doesn't have OperationContext")
	}
	oc := graphql.GetOperationContext(ctx)

	exeContext, gErr := buildExecutionContext(args, oc)
	if gErr != nil {
		return &graphql.Response{
			Errors: gqlerror.List{gErr},
		}
	}

	data := executeOperation(ctx, exeContext)

	var buf strings.Builder
	data.MarshalGQL(&buf)

	errs := exeContext.Errors()
	if len(errs) != 0 {
		log.FromContext(ctx).V(1).Info("operation finished with errors", "operationName", oc.OperationName, "errors", len(errs))
	}

	return &graphql.Response{
		Errors: errs,
		Data:   []byte(buf.String()),
	}
}

func buildExecutionContext(args *ExecutionArgs, oc *graphql.OperationContext) (*ExecutionContext, *gqlerror.Error) {
	if args.Schema == nil {
		return nil, gqlerror.Errorf("must provide schema")
	}
	if oc.Operation == nil {
		if oc.OperationName != "" {
			return nil, gqlerror.Errorf(`unknown operation named "%s"`, oc.OperationName)
		}
		return nil, gqlerror.Errorf("must provide an operation")
	}

	fieldResolver := args.FieldResolver
	if fieldResolver == nil {
		fieldResolver = DefaultFieldResolver
	}
	typeResolver := args.TypeResolver
	if typeResolver == nil {
		typeResolver = DefaultTypeResolver
	}

	return &ExecutionContext{
		Schema:         args.Schema,
		RootValue:      args.RootValue,
		Operation:      oc.Operation,
		VariableValues: oc.Variables,
		FieldResolver:  fieldResolver,
		TypeResolver:   typeResolver,
	}, nil
}

func executeOperation(ctx context.Context, exeContext *ExecutionContext) graphql.Marshaler {
	operation := exeContext.Operation

	var typ *ast.Definition
	switch operation.Operation {
	case ast.Query:
		typ = exeContext.Schema.Query
	case ast.Mutation:
		typ = exeContext.Schema.Mutation
	case ast.Subscription:
		exeContext.addError(ctx, gqlerror.ErrorPosf(operation.Position, "subscriptions are not supported"))
		return graphql.Null
	}
	if typ == nil {
		exeContext.addError(ctx, gqlerror.ErrorPosf(operation.Position, "schema is not configured for %s", operation.Operation))
		return graphql.Null
	}

	fields := graphql.CollectFields(graphql.GetOperationContext(ctx), operation.SelectionSet, []string{typ.Name})

	// Errors from sub-fields of a NonNull type may propagate to the top level,
	// in this case the entire data is null.
	var result graphql.Marshaler
	var err error
	if operation.Operation == ast.Mutation {
		result, err = executeFields(ctx, exeContext, typ, exeContext.RootValue, fields, true)
	} else {
		result, err = executeFields(ctx, exeContext, typ, exeContext.RootValue, fields, false)
	}
	if err != nil {
		return graphql.Null
	}

	return result
}

// executeFields executes fields of parentType concurrently, or one by one when serially is true.
func executeFields(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, sourceValue interface{}, fields []graphql.CollectedField, serially bool) (graphql.Marshaler, error) {
	out := &fieldSet{
		fields: fields,
		values: make([]graphql.Marshaler, len(fields)),
	}
	propagated := make([]bool, len(fields))

	run := func(i int, field graphql.CollectedField) {
		fc := &graphql.FieldContext{
			Object: parentType.Name,
			Field:  field,
		}
		ctx := graphql.WithFieldContext(ctx, fc)
		if field.Definition != nil && field.Name != "__typename" {
			fc.Args = field.ArgumentMap(exeContext.VariableValues)
		}

		data, err := executeField(ctx, exeContext, parentType, sourceValue, field)
		out.values[i] = data
		propagated[i] = err == errNullPropagation
	}

	if serially {
		for i, field := range fields {
			run(i, field)
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(len(fields))
		for i, field := range fields {
			i, field := i, field
			go func() {
				defer wg.Done()
				run(i, field)
			}()
		}
		wg.Wait()
	}

	for _, v := range propagated {
		if v {
			return graphql.Null, errNullPropagation
		}
	}

	return out, nil
}

// executeField resolves the field and completes its value.
// error is errNullPropagation when null has to be propagated to the parent.
func executeField(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, source interface{}, field graphql.CollectedField) (graphql.Marshaler, error) {
	if field.Name == "__typename" {
		return graphql.MarshalString(parentType.Name), nil
	}

	fieldDef := field.Definition
	if fieldDef == nil {
		fieldDef = parentType.Fields.ForName(field.Name)
	}
	if fieldDef == nil {
		exeContext.addError(ctx, gqlerror.Errorf("unknown field %s.%s", parentType.Name, field.Name))
		return graphql.Null, nil
	}
	if strings.HasPrefix(fieldDef.Name, "__") {
		return handleFieldError(ctx, exeContext, fieldDef.Type, gqlerror.Errorf("introspection field %s is not supported", fieldDef.Name))
	}

	fc := graphql.GetFieldContext(ctx)
	result, err := resolveField(ctx, exeContext, source, fc.Args)
	if err != nil {
		return handleFieldError(ctx, exeContext, fieldDef.Type, err)
	}

	completed, err := completeValue(ctx, exeContext, fieldDef.Type, field, result)
	if err != nil {
		return handleFieldError(ctx, exeContext, fieldDef.Type, err)
	}

	return completed, nil
}

func resolveField(ctx context.Context, exeContext *ExecutionContext, source interface{}, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.FromContext(ctx).Error(fmt.Errorf("%v", r), "resolver panicked")
			err = gqlerror.Errorf("internal system error")
		}
	}()

	return exeContext.FieldResolver(ctx, source, args)
}

// handleFieldError records err and returns null for typ.
// null is propagated to the parent when typ is non-null.
func handleFieldError(ctx context.Context, exeContext *ExecutionContext, typ *ast.Type, err error) (graphql.Marshaler, error) {
	exeContext.addError(ctx, err)
	if typ.NonNull {
		return graphql.Null, errNullPropagation
	}
	return graphql.Null, nil
}

// Implements the instructions for completeValue as defined in the
// "Value Completion" section of the spec.
func completeValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	// If result is an Error, throw a located error.
	if err, ok := result.(error); ok && err != nil {
		return graphql.Null, err
	}

	// If field type is NonNull, complete for inner type, and throw field error
	// if result is null.
	if returnType.NonNull {
		copied := *returnType
		copied.NonNull = false
		completed, err := completeValue(ctx, exeContext, &copied, field, result)
		if err != nil {
			return graphql.Null, err
		}
		if completed == graphql.Null {
			fc := graphql.GetFieldContext(ctx)
			return graphql.Null, gqlerror.ErrorPathf(fc.Path(), "cannot return null for non-nullable field %s.%s", field.ObjectDefinition.Name, field.Name)
		}
		return completed, nil
	}

	if isNil(result) {
		return graphql.Null, nil
	}

	if returnType.Elem != nil {
		return completeListValue(ctx, exeContext, returnType, field, result)
	}

	def := exeContext.Schema.Types[returnType.Name()]
	switch {
	case utils.IsLeafType(def):
		return completeLeafValue(def, result)
	case utils.IsAbstractType(def):
		return completeAbstractValue(ctx, exeContext, def, field, result)
	case utils.IsObjectType(def):
		return completeObjectValue(ctx, exeContext, def, field, result)
	}

	return graphql.Null, gqlerror.Errorf("cannot complete value of unexpected output type: %s", returnType.String())
}

// Complete a list value by completing each item in the list with the
// inner type
func completeListValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	items, ok := toSlice(result)
	if !ok {
		return graphql.Null, gqlerror.Errorf(`expected slice, but did not find one for field "%s.%s"`, field.ObjectDefinition.Name, field.Name)
	}

	itemType := returnType.Elem

	ret := make(graphql.Array, len(items))
	propagated := make([]bool, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for index, item := range items {
		index, item := index, item
		go func() {
			defer wg.Done()

			fc := &graphql.FieldContext{
				Index:  &index,
				Result: item,
			}
			ctx := graphql.WithFieldContext(ctx, fc)

			completed, err := completeValue(ctx, exeContext, itemType, field, item)
			if err != nil {
				completed, err = handleFieldError(ctx, exeContext, itemType, err)
			}
			ret[index] = completed
			propagated[index] = err == errNullPropagation
		}()
	}
	wg.Wait()

	for _, v := range propagated {
		if v {
			return graphql.Null, errNullPropagation
		}
	}

	return ret, nil
}

// Complete a value of an abstract type by determining the runtime object type
// of that value, then complete the value for that type.
func completeAbstractValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Definition, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	runtimeTypeName, err := exeContext.TypeResolver(ctx, result, returnType)
	if err != nil {
		return graphql.Null, err
	}

	runtimeType, err := ensureValidRuntimeType(exeContext, runtimeTypeName, returnType, field)
	if err != nil {
		return graphql.Null, err
	}

	return completeObjectValue(ctx, exeContext, runtimeType, field, result)
}

func ensureValidRuntimeType(exeContext *ExecutionContext, runtimeTypeName string, returnType *ast.Definition, field graphql.CollectedField) (*ast.Definition, error) {
	if runtimeTypeName == "" {
		return nil, gqlerror.Errorf(
			`abstract type "%s" must resolve to an Object type at runtime for field "%s.%s"`,
			returnType.Name,
			field.ObjectDefinition.Name,
			field.Name,
		)
	}

	runtimeType := exeContext.Schema.Types[runtimeTypeName]
	if runtimeType == nil {
		return nil, gqlerror.Errorf(
			`abstract type "%s" was resolved to a type "%s" that does not exist inside the schema`,
			returnType.Name,
			runtimeTypeName,
		)
	}

	if runtimeType.Kind != ast.Object {
		return nil, gqlerror.Errorf(
			`abstract type "%s" was resolved to a non-object type "%s"`,
			returnType.Name,
			runtimeTypeName,
		)
	}

	if !utils.IsTypeDefSubTypeOf(exeContext.Schema, runtimeType, returnType) {
		return nil, gqlerror.Errorf(
			`runtime Object type "%s" is not a possible type for "%s"`,
			runtimeType.Name,
			returnType.Name,
		)
	}

	return runtimeType, nil
}

// Complete an Object value by executing all sub-selections.
func completeObjectValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Definition, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	satisfies := []string{returnType.Name}
	for _, def := range exeContext.Schema.GetImplements(returnType) {
		satisfies = append(satisfies, def.Name)
	}
	subFields := graphql.CollectFields(graphql.GetOperationContext(ctx), field.Selections, satisfies)

	return executeFields(ctx, exeContext, returnType, result, subFields, false)
}
