package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type recorder struct {
	errors []string
	fatals []string
}

func (r *recorder) Helper() {}
func (r *recorder) Log(args ...interface{}) {}
func (r *recorder) Logf(format string, args ...interface{}) {}
func (r *recorder) Error(args ...interface{}) { r.errors = append(r.errors, fmt.Sprint(args...)) }
func (r *recorder) Errorf(format string, args ...interface{}) { r.errors = append(r.errors, fmt.Sprintf(format, args...)) }
func (r *recorder) Fatal(args ...interface{}) { r.fatals = append(r.fatals, fmt.Sprint(args...)) }
func (r *recorder) Fatalf(format string, args ...interface{}) { r.fatals = append(r.fatals, fmt.Sprintf(format, args...)) }

var _ TestingT = (*recorder)(nil)

func TestCheckGoldenFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	expectFilePath := filepath.Join(dir, "expected", "a.graphqls")

	t.Run("missing golden file fails and is created", func(t *testing.T) {
		r := &recorder{}
		CheckGoldenFile(r, []byte("type Query\n"), expectFilePath)
		if len(r.errors) != 1 || len(r.fatals) != 0 {
			t.Fatalf("unexpected report: %+v", r)
		}

		b, err := os.ReadFile(expectFilePath)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "type Query\n" {
			t.Errorf("unexpected golden file: %q", string(b))
		}
	})

	t.Run("same content", func(t *testing.T) {
		r := &recorder{}
		CheckGoldenFile(r, []byte("type Query\n"), expectFilePath)
		if len(r.errors) != 0 || len(r.fatals) != 0 {
			t.Errorf("unexpected report: %+v", r)
		}
	})

	t.Run("different content", func(t *testing.T) {
		r := &recorder{}
		CheckGoldenFile(r, []byte("type Mutation\n"), expectFilePath)
		if len(r.errors) != 1 {
			t.Fatalf("unexpected report: %+v", r)
		}
	})
}
