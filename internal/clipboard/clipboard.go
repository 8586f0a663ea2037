// Package clipboard probes the system clipboard for link and image
// insertion. Classification of clipboard text into URLs, local image paths,
// and plain text is a UX policy, not a contract; the rules live here in one
// place so both surfaces see identical behavior.
package clipboard

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// Kind classifies clipboard content.
type Kind uint8

const (
	// KindNone means the clipboard was empty or unusable.
	KindNone Kind = iota
	// KindURL is an http(s) URL.
	KindURL
	// KindImagePath is a local filesystem path to an image file.
	KindImagePath
	// KindText is anything else.
	KindText
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindImagePath:
		return "image-path"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Content is the classified clipboard payload.
type Content struct {
	// Kind is the classification.
	Kind Kind

	// Value is the URL, normalized absolute path, or raw text.
	Value string

	// NeedsCopy reports whether Value is a local path that must be copied
	// into the document's asset directory before referencing.
	NeedsCopy bool
}

// IsImage reports whether the content can pre-fill an image destination:
// a local image path, or a URL with an image extension.
func (c Content) IsImage() bool {
	if c.Kind == KindImagePath {
		return true
	}
	return c.Kind == KindURL && hasImageExt(c.Value)
}

// Probe reads the system clipboard. It is an interface so tests and the
// host application can substitute their own source.
type Probe interface {
	// Read returns the clipboard text. An empty string with nil error means
	// the clipboard held nothing usable.
	Read(ctx context.Context) (string, error)
}

// System is the default Probe backed by the OS clipboard.
type System struct{}

// Read implements Probe.
func (System) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return clipboard.ReadAll()
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true, ".avif": true,
}

func hasImageExt(s string) bool {
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	return imageExts[strings.ToLower(filepath.Ext(s))]
}

// Classify applies the clipboard policy to raw text. It does not touch the
// filesystem; pair with Validate for paths that must exist.
func Classify(text string) Content {
	text = strings.TrimSpace(text)
	if text == "" {
		return Content{Kind: KindNone}
	}
	// Multi-line content is never a path or URL.
	if strings.ContainsAny(text, "\n\r") {
		return Content{Kind: KindText, Value: text}
	}

	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		if _, err := url.Parse(text); err == nil {
			return Content{Kind: KindURL, Value: text}
		}
		return Content{Kind: KindText, Value: text}
	}

	if p, ok := localPath(text); ok && hasImageExt(p) {
		return Content{Kind: KindImagePath, Value: p, NeedsCopy: true}
	}

	return Content{Kind: KindText, Value: text}
}

// localPath normalizes file:// URLs, absolute paths, and home-relative paths
// to an absolute path.
func localPath(s string) (string, bool) {
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	if strings.HasPrefix(s, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, s[2:]), true
	}
	if filepath.IsAbs(s) {
		return s, true
	}
	return "", false
}

// Validate confirms that an image-path content points at an existing regular
// file. Non-path content passes through unchanged.
func Validate(c Content) (Content, bool) {
	if c.Kind != KindImagePath {
		return c, c.Kind != KindNone
	}
	info, err := os.Stat(c.Value)
	if err != nil || info.IsDir() {
		return Content{Kind: KindNone}, false
	}
	return c, true
}

// ReadContent probes and classifies in one step, validating paths against
// the filesystem.
func ReadContent(ctx context.Context, p Probe) (Content, error) {
	text, err := p.Read(ctx)
	if err != nil {
		return Content{Kind: KindNone}, err
	}
	c, _ := Validate(Classify(text))
	return c, nil
}
