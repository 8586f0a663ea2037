// Package assets copies referenced images into an asset directory next to
// the open document so the inserted markdown reference stays relative and
// portable.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoDocumentPath is returned when the document has never been saved and
// there is nowhere to anchor the asset directory.
var ErrNoDocumentPath = errors.New("document has no file path")

// Copier copies image files into a document-relative asset directory.
type Copier struct {
	// Dir is the asset directory name relative to the document ("assets" by
	// default).
	Dir string
}

// NewCopier creates a copier with the given asset directory name.
func NewCopier(dir string) *Copier {
	if dir == "" {
		dir = "assets"
	}
	return &Copier{Dir: dir}
}

// Copy copies srcPath into the asset directory beside docPath and returns
// the relative reference to embed in the document (forward slashes). An
// existing file with the same name gets a numeric suffix rather than being
// overwritten.
func (c *Copier) Copy(docPath, srcPath string) (string, error) {
	if docPath == "" {
		return "", ErrNoDocumentPath
	}

	destDir := filepath.Join(filepath.Dir(docPath), c.Dir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}

	name := filepath.Base(srcPath)
	dest := filepath.Join(destDir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(destDir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}

	if err := copyFile(srcPath, dest); err != nil {
		return "", fmt.Errorf("copy asset: %w", err)
	}

	return filepath.ToSlash(filepath.Join(c.Dir, filepath.Base(dest))), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
