package docsystem

import (
	"path/filepath"
	"regexp"
	"strings"
)

// snapshotPattern matches "(<timestamp>)<target>"
var snapshotPattern = regexp.MustCompile(`^\(([^()]*)\)(.+)$`)

// FileName is a store directory entry name, parsed once when read from disk
type FileName struct {
	Raw        string // name as stored
	IsSnapshot bool
	Target     string // document the snapshot belongs to; Raw for documents
	Timestamp  string // empty for documents
}

// ParseFileName classifies a directory entry as a document or a snapshot
func ParseFileName(raw string) FileName {
	m := snapshotPattern.FindStringSubmatch(raw)
	if m == nil {
		return FileName{Raw: raw, Target: raw}
	}
	return FileName{
		Raw:        raw,
		IsSnapshot: true,
		Target:     m[2],
		Timestamp:  m[1],
	}
}

// SnapshotOf reports whether this entry is a snapshot of the named document
func (f FileName) SnapshotOf(name string) bool {
	return f.IsSnapshot && f.Target == name
}

// SnapshotFileName builds the stored name of a snapshot
func SnapshotFileName(timestamp, target string) string {
	return "(" + timestamp + ")" + target
}

// SplitExt splits "notes.md" into "notes" and ".md"
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
