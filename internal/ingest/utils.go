package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docmind/constants"
)

// Filter decides which discovered paths are handed to the pipeline.
type Filter struct {
	Exts       map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions
	SkipHidden bool
	Exclude    []string // directories whose contents are never emitted, e.g. the output dir
}

// NewFilter builds a Filter from an extension list like ["pdf", ".PNG"].
func NewFilter(exts []string, skipHidden bool, exclude ...string) Filter {
	f := Filter{SkipHidden: skipHidden}
	if len(exts) > 0 {
		f.Exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			if e = constants.NormalizeExt(e); e != "" {
				f.Exts[e] = struct{}{}
			}
		}
	}
	for _, dir := range exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			f.Exclude = append(f.Exclude, abs)
		}
	}
	return f
}

// Match reports whether a regular file at path should be processed.
func (f Filter) Match(path string) bool {
	if f.SkipHidden && IsHidden(path) {
		return false
	}
	if f.excluded(path) {
		return false
	}
	exts := f.Exts
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

// SkipDir reports whether a directory should not be descended into.
func (f Filter) SkipDir(path string) bool {
	return (f.SkipHidden && IsHidden(path)) || f.excluded(path)
}

func (f Filter) excluded(path string) bool {
	if len(f.Exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range f.Exclude {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
