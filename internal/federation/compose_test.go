package federation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/fedsubgraph/internal/log"
)

func compose(t *testing.T, sdl string, cfg *ComposeConfig) *Composition {
	t.Helper()

	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	comp, err := Compose(ctx, parseSchemaDocument(t, sdl), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return comp
}

func TestCompose_serviceSDL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sdl  string
		cfg  *ComposeConfig
		want string
	}{
		{
			name: "federation v1",
			sdl: heredoc.Doc(`
				type Query {
					product(id: ID!): Product
				}
				type Product @key(fields: "id") {
					id: ID!
					name: String
				}
			`),
			want: heredoc.Doc(`
				type Product @key(fields: "id") {
				  id: ID!
				  name: String
				}
				type Query {
				  product(id: ID!): Product
				}
			`),
		},
		{
			name: "federation v1 with empty query",
			sdl: heredoc.Doc(`
				type Product @key(fields: "id") {
					id: ID!
				}
			`),
			want: heredoc.Doc(`
				type Product @key(fields: "id") {
				  id: ID!
				}
				type Query
			`),
		},
		{
			name: "federation v1 with query type should be empty",
			sdl: heredoc.Doc(`
				type Query {
					hello: String
				}
			`),
			cfg: &ComposeConfig{QueryTypeShouldBeEmpty: true},
			want: heredoc.Doc(`
				type Query
			`),
		},
		{
			name: "federation v1 with custom root",
			sdl: heredoc.Doc(`
				schema {
					query: RootQuery
				}
				type RootQuery {
					"greeting message"
					hello: String
				}
			`),
			want: heredoc.Doc(`
				schema {
				  query: RootQuery
				}
				type RootQuery {
				  """
				  greeting message
				  """
				  hello: String
				}
			`),
		},
		{
			name: "federation v2",
			sdl: heredoc.Doc(`
				extend schema @link(url: "https://specs.apollo.dev/federation/v2.0", import: ["@key", "@shareable"])

				type Query {
					product(id: ID!): Product
				}
				type Product @key(fields: "id") {
					id: ID!
					name: String @shareable
				}
			`),
			want: heredoc.Doc(`
				extend schema @link(url: "https://specs.apollo.dev/federation/v2.0", import: ["@key","@shareable"])
				directive @federation__extends on OBJECT | INTERFACE
				directive @federation__external(reason: String) on OBJECT | FIELD_DEFINITION
				directive @federation__override(from: String!) on FIELD_DEFINITION
				directive @federation__provides(fields: federation__FieldSet!) on FIELD_DEFINITION
				directive @federation__requires(fields: federation__FieldSet!) on FIELD_DEFINITION
				directive @inaccessible on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION
				directive @key(fields: federation__FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE
				directive @link(url: String, as: String, for: link__Purpose, import: [link__Import]) repeatable on SCHEMA
				directive @shareable on OBJECT | FIELD_DEFINITION
				directive @tag(name: String!) repeatable on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION
				type Product @key(fields: "id") {
				  id: ID!
				  name: String @shareable
				}
				type Query {
				  product(id: ID!): Product
				  _service: _Service!
				  _entities(representations: [_Any!]!): [_Entity]!
				}
				scalar _Any
				union _Entity = Product
				type _Service {
				  sdl: String!
				}
				scalar federation__FieldSet
				scalar link__Import
				enum link__Purpose {
				  """
				  ` + "`SECURITY`" + ` features provide metadata necessary to securely resolve fields.
				  """
				  SECURITY
				  """
				  ` + "`EXECUTION`" + ` features provide metadata necessary for operation execution.
				  """
				  EXECUTION
				}
			`),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			comp := compose(t, tt.sdl, tt.cfg)

			got := comp.ServiceSDL(nil)
			if diff := cmp.Diff(strings.TrimSpace(tt.want), got); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
		})
	}
}

func TestCompose_entities(t *testing.T) {
	t.Parallel()

	comp := compose(t, heredoc.Doc(`
		type Query {
			me: User
		}
		type User @key(fields: "id") {
			id: ID!
		}
		type Review @key(fields: "id") {
			id: ID!
		}
	`), nil)

	if diff := cmp.Diff([]string{"Review", "User"}, comp.Entities); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if comp.Federation2() {
		t.Error("must be federation v1")
	}
	if comp.KeyDirective != "key" {
		t.Errorf("unexpected key directive: %s", comp.KeyDirective)
	}

	query := comp.Schema.Query
	var fieldNames []string
	for _, field := range query.Fields {
		fieldNames = append(fieldNames, field.Name)
	}
	if diff := cmp.Diff([]string{"me", "_service", "_entities", "__schema", "__type"}, fieldNames); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	entities := query.Fields.ForName(EntitiesFieldName)
	if v := entities.Type.String(); v != "[_Entity]!" {
		t.Errorf("unexpected _entities type: %s", v)
	}
	if v := entities.Arguments.ForName(RepresentationsArgumentName).Type.String(); v != "[_Any!]!" {
		t.Errorf("unexpected representations type: %s", v)
	}

	union := comp.Schema.Types[EntityUnionName]
	if union == nil {
		t.Fatal("_Entity is not found")
	}
	if diff := cmp.Diff([]string{"Review", "User"}, union.Types); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	var possibleTypes []string
	for _, def := range comp.Schema.GetPossibleTypes(union) {
		possibleTypes = append(possibleTypes, def.Name)
	}
	if diff := cmp.Diff([]string{"Review", "User"}, possibleTypes); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if comp.Schema.Types[AnyScalarName] == nil {
		t.Error("_Any is not found")
	}
	if comp.Schema.Types[ServiceTypeName] == nil {
		t.Error("_Service is not found")
	}
}

func TestCompose_noEntities(t *testing.T) {
	t.Parallel()

	comp := compose(t, heredoc.Doc(`
		type Query {
			hello: String
		}
	`), nil)

	if len(comp.Entities) != 0 {
		t.Errorf("unexpected entities: %v", comp.Entities)
	}
	if comp.Schema.Query.Fields.ForName(EntitiesFieldName) != nil {
		t.Error("_entities must not be added")
	}
	if comp.Schema.Query.Fields.ForName(ServiceFieldName) == nil {
		t.Error("_service must be added")
	}
	for _, name := range []string{EntityUnionName, AnyScalarName} {
		if comp.Schema.Types[name] != nil {
			t.Errorf("%s must not be added", name)
		}
	}
}

func TestCompose_doesNotMutateInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	doc := parseSchemaDocument(t, heredoc.Doc(`
		extend schema @link(url: "https://specs.apollo.dev/federation/v2.3", import: ["@key"])

		type Query {
			product: Product
		}
		type Product @key(fields: "id") {
			id: ID!
		}
		extend type Product {
			name: String
		}
	`))

	comp, err := Compose(ctx, doc, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(doc.Directives) != 0 {
		t.Errorf("directives are injected into input: %d", len(doc.Directives))
	}
	if len(doc.Definitions) != 2 {
		t.Errorf("types are injected into input: %d", len(doc.Definitions))
	}
	if v := len(doc.Definitions.ForName("Query").Fields); v != 1 {
		t.Errorf("query fields of input are modified: %d", v)
	}
	if v := len(doc.Definitions.ForName("Product").Fields); v != 1 {
		t.Errorf("extensions are merged into input: %d", v)
	}
	if v := doc.SchemaExtension[0].Directives[0].Definition; v != nil {
		t.Errorf("directive definition is bound to input: %v", v.Name)
	}

	// composed query type is not shared with the documents
	if comp.Schema.Query == doc.Definitions.ForName("Query") {
		t.Error("query type of input is shared")
	}
	if comp.Schema.Query == comp.Document.Definitions.ForName("Query") {
		t.Error("query type of document is shared")
	}
	if v := len(comp.Document.Definitions.ForName("Query").Fields); v != 1 {
		t.Errorf("query fields of document are modified: %d", v)
	}
	if v := len(comp.Schema.Types["Product"].Fields); v != 2 {
		t.Errorf("extension is not merged: %d", v)
	}

	// composing again gives same result
	again, err := Compose(ctx, doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(comp.ServiceSDL(nil), again.ServiceSDL(nil)); diff != "" {
		t.Errorf("(-first +second)\n%s", diff)
	}
}

func TestCompose_injectedDefinitions(t *testing.T) {
	t.Parallel()

	comp := compose(t, heredoc.Doc(`
		directive @key(fields: _FieldSet!) repeatable on OBJECT | INTERFACE
		scalar _FieldSet

		type Query {
			product: Product
		}
		type Product @key(fields: "id") {
			id: ID!
		}
	`), nil)

	if diff := cmp.Diff([]string{"extends", "external", "requires", "provides"}, comp.InjectedDirectives); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if len(comp.InjectedTypes) != 0 {
		t.Errorf("unexpected injected types: %v", comp.InjectedTypes)
	}
}

func TestCompose_renamedKey(t *testing.T) {
	t.Parallel()

	comp := compose(t, heredoc.Doc(`
		extend schema @link(url: "https://specs.apollo.dev/federation/v2.3", import: [{name: "@key", as: "@primaryKey"}])

		type Query {
			product: Product
		}
		type Product @primaryKey(fields: "id") {
			id: ID!
		}
	`), nil)

	if comp.KeyDirective != "primaryKey" {
		t.Errorf("unexpected key directive: %s", comp.KeyDirective)
	}
	if diff := cmp.Diff([]string{"Product"}, comp.Entities); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if comp.Schema.Directives["key"] != nil {
		t.Error("@key must be renamed")
	}
	if comp.Schema.Directives["federation__interfaceObject"] == nil {
		t.Error("@interfaceObject is available on v2.3")
	}
}

func TestCompose_cacheTag(t *testing.T) {
	t.Parallel()

	comp := compose(t, heredoc.Doc(`
		extend schema @link(url: "https://specs.apollo.dev/federation/v2.12", import: ["@key", "@cacheTag"])

		type Query {
			product(id: ID!): Product @cacheTag(format: "product")
		}
		type Product @key(fields: "id") @cacheTag(format: "product-{$key.id}") {
			id: ID!
		}
	`), nil)

	sdl := comp.ServiceSDL(nil)
	for _, want := range []string{
		`directive @cacheTag(format: String!) repeatable on OBJECT | INTERFACE | FIELD_DEFINITION`,
		`type Product @key(fields: "id") @cacheTag(format: "product-{$key.id}") {`,
		`product(id: ID!): Product @cacheTag(format: "product")`,
		`directive @federation__listSize(assumedSize: Int, slicingArguments: [String!], sizedFields: [String!], requireOneSlicingArgument: Boolean = true) on FIELD_DEFINITION`,
	} {
		if !strings.Contains(sdl, want) {
			t.Errorf("%q is not found in\n%s", want, sdl)
		}
	}
}

func TestCompose_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sdl     string
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "missing key",
			sdl: heredoc.Doc(`
				interface Node @key(fields: "id") {
					id: ID!
				}
				type Book implements Node {
					id: ID!
				}
			`),
			wantErr: func(t *testing.T, err error) {
				var target *MissingKeyError
				if !errors.As(err, &target) {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "multiple links",
			sdl: heredoc.Doc(`
				extend schema @link(url: "https://specs.apollo.dev/federation/v2.0")
				extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")
			`),
			wantErr: wantMultipleLinks(2),
		},
		{
			name: "unknown type",
			sdl: heredoc.Doc(`
				type Query {
					product: Product
				}
			`),
			wantErr: func(t *testing.T, err error) {
				var target *gqlerror.Error
				if !errors.As(err, &target) {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "feature of newer version",
			sdl: heredoc.Doc(`
				extend schema @link(url: "https://specs.apollo.dev/federation/v2.9", import: ["@cacheTag"])
			`),
			wantErr: func(t *testing.T, err error) {
				var target *UnsupportedLinkImportError
				if !errors.As(err, &target) {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

			_, err := Compose(ctx, parseSchemaDocument(t, tt.sdl), nil)
			if err == nil {
				t.Fatal("error expected")
			}
			tt.wantErr(t, err)
		})
	}
}

func TestCheckEntityResolvers(t *testing.T) {
	t.Parallel()

	if err := CheckEntityResolvers(nil, false, false); err != nil {
		t.Errorf("no entities needs no resolvers: %v", err)
	}
	if err := CheckEntityResolvers([]string{"Product"}, true, true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckEntityResolvers([]string{"Product"}, false, false)
	var mErr *multierror.Error
	if !errors.As(err, &mErr) {
		t.Fatalf("unexpected error: %v", err)
	}

	var codes []interface{}
	for _, err := range mErr.Errors {
		var gErr *gqlerror.Error
		if !errors.As(err, &gErr) {
			t.Fatalf("unexpected error: %v", err)
		}
		codes = append(codes, gErr.Extensions["code"])
	}
	if diff := cmp.Diff([]interface{}{CodeMissingEntityTypeResolver, CodeMissingEntitiesFetcher}, codes); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	err = CheckEntityResolvers([]string{"Product"}, true, false)
	if !errors.As(err, &mErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mErr.Errors) != 1 {
		t.Errorf("unexpected errors: %v", mErr.Errors)
	}
}
