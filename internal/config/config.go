// Package config loads editor settings and persists per-document state.
// Both files are plain JSON, read with gjson and updated in place with sjson
// so unknown keys written by other tools survive a round trip.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Settings are the engine-relevant editor settings. Fields not present in
// the settings file keep their defaults.
type Settings struct {
	// AssetDir is the document-relative image asset directory name.
	AssetDir string

	// BulletMarker is the marker used when creating bullet lists ("-", "*",
	// or "+").
	BulletMarker string

	// TableRows and TableCols are the default dimensions for insertTable.
	TableRows int
	TableCols int

	// HardBreak selects the hard line break style: "backslash" or "spaces".
	HardBreak string
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		AssetDir:     "assets",
		BulletMarker: "-",
		TableRows:    3,
		TableCols:    3,
		HardBreak:    "spaces",
	}
}

// LoadSettings reads settings from path. A missing file yields defaults; a
// malformed file yields defaults for the unreadable keys.
func LoadSettings(path string) Settings {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	if v := gjson.GetBytes(data, "editor.assetDir"); v.Exists() {
		s.AssetDir = v.String()
	}
	if v := gjson.GetBytes(data, "editor.bulletMarker"); v.Exists() {
		switch v.String() {
		case "-", "*", "+":
			s.BulletMarker = v.String()
		}
	}
	if v := gjson.GetBytes(data, "editor.table.rows"); v.Exists() && v.Int() > 0 {
		s.TableRows = int(v.Int())
	}
	if v := gjson.GetBytes(data, "editor.table.cols"); v.Exists() && v.Int() > 0 {
		s.TableCols = int(v.Int())
	}
	if v := gjson.GetBytes(data, "editor.hardBreak"); v.Exists() {
		switch v.String() {
		case "backslash", "spaces":
			s.HardBreak = v.String()
		}
	}

	return s
}

// DocState is the persisted per-document metadata: line ending style, hard
// break style, and the last known cursor content line.
type DocState struct {
	// LineEnding is "lf" or "crlf".
	LineEnding string

	// HardBreaks reports whether the document uses backslash hard breaks.
	HardBreaks bool

	// LastCursorLine is the content line index the cursor was last on.
	LastCursorLine int
}

// Store persists DocState records keyed by document path in one JSON file.
type Store struct {
	path string
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// escapeKey makes a document path safe for use as a gjson/sjson object key.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", "\\.", "*", "\\*", "?", "\\?", "|", "\\|", "#", "\\#", "@", "\\@")
	return r.Replace(key)
}

// DocState returns the stored state for a document, or zero state if none
// was recorded.
func (s *Store) DocState(docPath string) DocState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DocState{LineEnding: "lf"}
	}

	base := "docs." + escapeKey(docPath)
	st := DocState{LineEnding: "lf"}
	if v := gjson.GetBytes(data, base+".lineEnding"); v.Exists() {
		st.LineEnding = v.String()
	}
	st.HardBreaks = gjson.GetBytes(data, base+".hardBreaks").Bool()
	st.LastCursorLine = int(gjson.GetBytes(data, base+".lastCursorLine").Int())
	return st
}

// SaveDocState records the state for a document, preserving state recorded
// for every other document.
func (s *Store) SaveDocState(docPath string, st DocState) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		data = []byte("{}")
	}

	base := "docs." + escapeKey(docPath)
	data, err = sjson.SetBytes(data, base+".lineEnding", st.LineEnding)
	if err != nil {
		return fmt.Errorf("set lineEnding: %w", err)
	}
	data, err = sjson.SetBytes(data, base+".hardBreaks", st.HardBreaks)
	if err != nil {
		return fmt.Errorf("set hardBreaks: %w", err)
	}
	data, err = sjson.SetBytes(data, base+".lastCursorLine", st.LastCursorLine)
	if err != nil {
		return fmt.Errorf("set lastCursorLine: %w", err)
	}

	return os.WriteFile(s.path, data, 0o644)
}
