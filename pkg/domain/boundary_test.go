package domain_test

import (
	"testing"

	"provencore/testutil"
)

// The domain package is the shared vocabulary: it must not reach into any
// internal tree, directly or transitively.
func TestDomainImportsNoInternalPackages(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/domain is the dependency floor")
	testutil.AssertNoTransitiveDependency(t, ".", testutil.InternalImportForbidden,
		"pkg/domain is the dependency floor")
}
