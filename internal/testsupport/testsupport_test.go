package testsupport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wingez/gxpu/internal/testsupport"
)

func TestAssertLinesEqual(t *testing.T) {
	testsupport.AssertLines(t, []string{"a", "b"}, []string{"a", "b"})
}

func TestAssertLinesEqualEmpty(t *testing.T) {
	testsupport.AssertLines(t, nil, nil)
}

func TestSourceFilesFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	require(t, os.WriteFile(filepath.Join(dir, "a.gx"), []byte(""), 0o644))
	require(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(""), 0o644))

	files := testsupport.SourceFiles(t, dir, "gx")
	if len(files) != 1 || files[0].Name() != "a.gx" {
		t.Fatalf("expected exactly a.gx, got %v", files)
	}
}

func require(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
