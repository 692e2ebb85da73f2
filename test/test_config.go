//nolint:dogsled
package test

import (
	"os"
	"path"
	"runtime"
	"testing"
)

// ProjectRootPath - absolute path of the module root, derived from this file's location.
func ProjectRootPath() string {
	_, filename, _, _ := runtime.Caller(0)

	return path.Join(path.Dir(filename), "..")
}

// ChdirProjectRoot - golang when running tests set the root folder to the folder
// of the file that it's being tested. This function change the root folder to the project
// root so that it's easier to reference file resources from the project root folder.
// The previous working directory is restored when the test ends.
func ChdirProjectRoot(t *testing.T) {
	t.Helper()

	previous, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to read working directory: %v", err)
	}

	if err := os.Chdir(ProjectRootPath()); err != nil {
		t.Fatalf("failed to change to project root: %v", err)
	}

	t.Cleanup(func() {
		_ = os.Chdir(previous)
	})
}
