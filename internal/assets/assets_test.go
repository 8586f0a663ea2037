package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-md/inkwell/internal/assets"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyIntoAssetDir(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.md")
	src := filepath.Join(dir, "shot.png")
	writeFile(t, doc, "# notes")
	writeFile(t, src, "imagedata")

	c := assets.NewCopier("assets")
	ref, err := c.Copy(doc, src)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "assets/shot.png" {
		t.Errorf("ref = %q, want assets/shot.png", ref)
	}

	data, err := os.ReadFile(filepath.Join(dir, "assets", "shot.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "imagedata" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyAvoidsOverwrite(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.md")
	src := filepath.Join(dir, "shot.png")
	writeFile(t, doc, "# notes")
	writeFile(t, src, "new")
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "assets", "shot.png"), "old")

	c := assets.NewCopier("assets")

	ref, err := c.Copy(doc, src)
	if err != nil {
		t.Fatal(err)
	}
	if ref != "assets/shot-1.png" {
		t.Errorf("ref = %q, want assets/shot-1.png", ref)
	}

	old, _ := os.ReadFile(filepath.Join(dir, "assets", "shot.png"))
	if string(old) != "old" {
		t.Error("existing asset was overwritten")
	}
}

func TestCopyWithoutDocumentPath(t *testing.T) {
	c := assets.NewCopier("assets")
	if _, err := c.Copy("", "/tmp/shot.png"); err != assets.ErrNoDocumentPath {
		t.Errorf("err = %v, want ErrNoDocumentPath", err)
	}
}
