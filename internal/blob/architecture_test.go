package blob

import (
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/tools/go/packages"

	"sanctuary/testutil"
)

var (
	infraDrivers = testutil.Under(testutil.Module + "/internal/infra/blob")
	blobFacade   = testutil.Under(testutil.Module + "/internal/blob")
	blobContract = testutil.Under(testutil.Module + "/internal/blob/core")
)

// Reports, intake and the CLI publish through blob.Open; only this package
// knows which drivers exist.
func TestDriversReachableOnlyThroughOpen(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, testutil.Module+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages loaded for %s", testutil.Module)
	}

	offenders := make(map[string]struct{})
	for _, pkg := range pkgs {
		if blobFacade(pkg.PkgPath) || infraDrivers(pkg.PkgPath) {
			continue
		}
		for path := range pkg.Imports {
			if infraDrivers(path) {
				offenders[pkg.PkgPath+" -> "+path] = struct{}{}
			}
		}
	}
	if len(offenders) == 0 {
		return
	}
	list := make([]string, 0, len(offenders))
	for o := range offenders {
		list = append(list, o)
	}
	sort.Strings(list)
	t.Fatalf("%d packages bypass blob.Open and import a storage driver:\n%v", len(list), list)
}

// Drivers share only the Store contract; anything else in the module would
// let storage code depend on sanctuary state.
func TestDriversImportOnlyStoreContract(t *testing.T) {
	outsideContract := func(path string) bool {
		return testutil.Under(testutil.Module)(path) && !blobContract(path)
	}
	for _, driver := range []string{"fs", "memory", "s3"} {
		dir := filepath.Join("..", "infra", "blob", driver)
		t.Run(driver, func(t *testing.T) {
			testutil.AssertNoDirectImports(t, dir, outsideContract, "storage drivers depend only on blob/core")
		})
	}
}
