package memory

import (
	"testing"

	"provencore/testutil"
)

// Ledger adapters depend on pkg/domain only; the engine depends on them via
// its storage factory, never the other way around.
func TestAdapterImportsNoEnginePackages(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.EngineImportForbidden,
		"adapters stay engine-free")
}
