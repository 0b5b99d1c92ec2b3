package execute

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/MakeNowJust/heredoc/v2"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/fedsubgraph/internal/gqlfun"
	"github.com/vvakame/fedsubgraph/internal/log"
	"github.com/vvakame/fedsubgraph/internal/testutils"
)

func TestExecute(t *testing.T) {
	const testFileDir = "./_testdata/assets"
	const expectFileDir = "./_testdata/expected"

	files, err := os.ReadDir(testFileDir)
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".graphql") {
			continue
		}

		file := file
		t.Run(file.Name(), func(t *testing.T) {
			ctx := context.Background()
			ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

			b1, err := os.ReadFile(path.Join(testFileDir, file.Name()))
			if err != nil {
				t.Fatal(err)
			}
			rawQuery := string(b1)

			operationName := testutils.FindOptionString(t, "operationName", rawQuery)

			schemaFile := testutils.FindSchemaFileName(t, rawQuery)
			b2, err := os.ReadFile(path.Join(testFileDir, schemaFile))
			if err != nil {
				t.Fatal(err)
			}

			schema, err := gqlparser.LoadSchema(&ast.Source{
				Name:  schemaFile,
				Input: string(b2),
			})
			if err != nil {
				t.Fatal(err)
			}

			dataFile := testutils.FindOptionString(t, "data", rawQuery)
			b3, err := os.ReadFile(path.Join(testFileDir, dataFile))
			if err != nil {
				t.Fatal(err)
			}

			data := make(map[string]interface{})
			err = json.Unmarshal(b3, &data)
			if err != nil {
				t.Fatal(err)
			}

			variablesFile := testutils.FindOptionString(t, "variables", rawQuery)
			variables := map[string]interface{}{}
			if variablesFile != "" {
				b4, err := os.ReadFile(path.Join(testFileDir, variablesFile))
				if err != nil {
					t.Fatal(err)
				}
				err = json.Unmarshal(b4, &variables)
				if err != nil {
					t.Fatal(err)
				}
			}

			t.Logf("schema: %s, operation: %s, operationName: %s, dataFile: %s, variableFile: %s", schemaFile, file.Name(), operationName, dataFile, variablesFile)

			oc, gErrs := gqlfun.CreateOperationContext(ctx, schema, rawQuery, operationName, variables)
			if len(gErrs) != 0 {
				t.Fatal(gErrs)
			}
			ctx = graphql.WithOperationContext(ctx, oc)

			response := Execute(ctx, &ExecutionArgs{
				Schema:    schema,
				RootValue: data,
			})

			responseBytes, err := json.MarshalIndent(response, "", "  ")
			if err != nil {
				t.Fatal(err)
			}

			fileName := file.Name()[:len(file.Name())-len(".graphql")]

			testutils.CheckGoldenFile(t, responseBytes, path.Join(expectFileDir, fileName+".response.json"))
		})
	}
}

type Human struct {
	ID      string `json:"id"`
	Name    string
	Height  float64 `json:"height"`
	Friends []interface{}
	secret  string
}

type Droid struct {
	id string
}

func (d *Droid) ID() string {
	return d.id
}

func (d *Droid) Name() (string, error) {
	if d.id == "" {
		return "", errors.New("unnamed droid")
	}
	return "R2-D2", nil
}

func (d *Droid) PrimaryFunction() string {
	return "Astromech"
}

func (d *Droid) Friends() []interface{} {
	return nil
}

func execute(t *testing.T, sdl string, query string, args *ExecutionArgs) *graphql.Response {
	t.Helper()

	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	schema, err := gqlparser.LoadSchema(&ast.Source{Name: t.Name() + ".graphqls", Input: sdl})
	if err != nil {
		t.Fatal(err)
	}
	oc, gErrs := gqlfun.CreateOperationContext(ctx, schema, query, "", nil)
	if len(gErrs) != 0 {
		t.Fatal(gErrs)
	}
	ctx = graphql.WithOperationContext(ctx, oc)

	args.Schema = schema
	return Execute(ctx, args)
}

var characterSchema = heredoc.Doc(`
	type Query {
		hero: Character
		heroes: [Character!]!
		count: Int
		ids: [ID]
	}
	interface Character {
		id: ID!
		name: String!
		friends: [Character]
	}
	type Human implements Character {
		id: ID!
		name: String!
		friends: [Character]
		height: Float
	}
	type Droid implements Character {
		id: ID!
		name: String!
		friends: [Character]
		primaryFunction: String
	}
`)

func TestExecute_goValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		root      map[string]interface{}
		want      string
		wantErrs  []string
		wantPaths []ast.Path
	}{
		{
			name:  "struct fields",
			query: `{ hero { __typename id name ... on Human { height friends { name } } } }`,
			root: map[string]interface{}{
				"hero": &Human{
					ID:     "1000",
					Name:   "Luke",
					Height: 1.72,
					Friends: []interface{}{
						&Droid{id: "2001"},
					},
					secret: "hidden",
				},
			},
			want: `{"hero":{"__typename":"Human","id":"1000","name":"Luke","height":1.72,"friends":[{"name":"R2-D2"}]}}`,
		},
		{
			name:  "methods",
			query: `{ hero { id name ... on Droid { primaryFunction } } }`,
			root: map[string]interface{}{
				"hero": &Droid{id: "2001"},
			},
			want: `{"hero":{"id":"2001","name":"R2-D2","primaryFunction":"Astromech"}}`,
		},
		{
			name:  "leaf coercion",
			query: `{ count ids }`,
			root: map[string]interface{}{
				"count": json.Number("42"),
				"ids":   []int{1, 2},
			},
			want: `{"count":42,"ids":["1","2"]}`,
		},
		{
			name:  "null in non-null list propagates",
			query: `{ heroes { name } count }`,
			root: map[string]interface{}{
				"heroes": []interface{}{
					map[string]interface{}{"__typename": "Human", "name": "Luke"},
					nil,
				},
				"count": 1,
			},
			want: `null`,
			wantErrs: []string{
				`cannot return null for non-nullable field Query.heroes`,
			},
			wantPaths: []ast.Path{
				{ast.PathName("heroes"), ast.PathIndex(1)},
			},
		},
		{
			name:  "error of method",
			query: `{ hero { name } }`,
			root: map[string]interface{}{
				"hero": &Droid{},
			},
			want: `{"hero":null}`,
			wantErrs: []string{
				`unnamed droid`,
			},
			wantPaths: []ast.Path{
				{ast.PathName("hero"), ast.PathName("name")},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := execute(t, characterSchema, tt.query, &ExecutionArgs{RootValue: tt.root})

			if diff := cmp.Diff(tt.want, string(resp.Data)); diff != "" {
				t.Errorf("(-want +got)\n%s", diff)
			}
			var gotErrs []string
			var gotPaths []ast.Path
			for _, gErr := range resp.Errors {
				gotErrs = append(gotErrs, gErr.Message)
				gotPaths = append(gotPaths, gErr.Path)
			}
			if diff := cmp.Diff(tt.wantErrs, gotErrs); diff != "" {
				t.Errorf("errors (-want +got)\n%s", diff)
			}
			if tt.wantPaths != nil {
				if diff := cmp.Diff(tt.wantPaths, gotPaths); diff != "" {
					t.Errorf("paths (-want +got)\n%s", diff)
				}
			}
		})
	}
}

func TestExecute_customResolvers(t *testing.T) {
	t.Parallel()

	resp := execute(t, characterSchema, `{ hero { id name } }`, &ExecutionArgs{
		FieldResolver: func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			fc := graphql.GetFieldContext(ctx)
			switch fc.Field.Name {
			case "hero":
				return "2001", nil
			case "id":
				return source, nil
			case "name":
				return "R2-D2", nil
			}
			return nil, nil
		},
		TypeResolver: func(ctx context.Context, value interface{}, abstractType *ast.Definition) (string, error) {
			if abstractType.Name != "Character" {
				t.Errorf("unexpected abstract type: %s", abstractType.Name)
			}
			return "Droid", nil
		},
	})

	if len(resp.Errors) != 0 {
		t.Fatal(resp.Errors)
	}
	if diff := cmp.Diff(`{"hero":{"id":"2001","name":"R2-D2"}}`, string(resp.Data)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestExecute_resolverPanic(t *testing.T) {
	t.Parallel()

	resp := execute(t, characterSchema, `{ count }`, &ExecutionArgs{
		FieldResolver: func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			panic("boom")
		},
	})

	if diff := cmp.Diff(`{"count":null}`, string(resp.Data)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "internal system error" {
		t.Errorf("unexpected errors: %v", resp.Errors)
	}
}
