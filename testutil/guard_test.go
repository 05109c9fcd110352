package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingTB struct {
	testing.TB
	fatal string
}

func (r *recordingTB) Helper() {}
func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestAssertNoDirectImportsFlagsForbiddenPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n\nimport _ \"provencore/internal/core\"\n")
	writeFile(t, dir, "a_test.go", "package a\n\nimport _ \"provencore/internal/core\"\n")

	rec := &recordingTB{}
	AssertNoDirectImports(rec, dir, EngineImportForbidden, "adapters stay engine-free")
	if rec.fatal == "" {
		t.Fatalf("expected a violation")
	}
	if !strings.Contains(rec.fatal, "a.go") || strings.Contains(rec.fatal, "a_test.go") {
		t.Fatalf("only non-test files count: %s", rec.fatal)
	}
}

func TestAssertNoDirectImportsPassesCleanPackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n\nimport _ \"provencore/pkg/domain\"\n")

	rec := &recordingTB{}
	AssertNoDirectImports(rec, dir, EngineImportForbidden, "adapters stay engine-free")
	if rec.fatal != "" {
		t.Fatalf("unexpected violation: %s", rec.fatal)
	}
}

func TestAssertNoTransitiveDependencyUsesListOutput(t *testing.T) {
	prev := goListDeps
	goListDeps = func(string) ([]byte, error) {
		return []byte("provencore/pkg/domain\nprovencore/internal/core\n"), nil
	}
	defer func() { goListDeps = prev }()

	rec := &recordingTB{}
	AssertNoTransitiveDependency(rec, "./...", EngineImportForbidden, "adapters stay engine-free")
	if !strings.Contains(rec.fatal, "provencore/internal/core") {
		t.Fatalf("expected the listed dependency to be flagged: %s", rec.fatal)
	}
}

func TestForbiddenPredicates(t *testing.T) {
	if !InternalImportForbidden("provencore/internal/core") {
		t.Fatalf("internal path not matched")
	}
	if InternalImportForbidden("provencore/pkg/domain") || InternalImportForbidden("crypto/internal/fips140") {
		t.Fatalf("non-module paths wrongly matched")
	}
	if !EngineImportForbidden("provencore/internal/core") {
		t.Fatalf("engine path not matched")
	}
	if EngineImportForbidden("provencore/internal/infra/ledger/memory") {
		t.Fatalf("adapter path wrongly matched")
	}
}
