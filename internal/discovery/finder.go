// Package discovery walks deal stage directories and produces the
// worklist of underwriting model files to extract, together with the
// per-file metadata that rides along into the output records.
package discovery

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/brcap/uwscan/internal/extract"
)

// Criteria defines which files qualify as underwriting models.
type Criteria struct {
	// StageDirs are the deal stage directories to scan, e.g.
	// ".../Deals/2) Active UW and Review". The directory base name
	// becomes the record's deal stage.
	StageDirs []string
	// ModelSubdir, when non-empty, limits matches to files under a
	// directory with this name (case-insensitive), e.g. "UW Model".
	ModelSubdir string
	// Extensions is the allow-list of file extensions, with leading dot.
	Extensions []string
	// Includes are substrings the file name must all contain.
	Includes []string
	// Excludes are substrings the file name must not contain.
	Excludes []string
	// MinModified drops files last modified before this time. Zero
	// disables the check.
	MinModified time.Time
	// Ignore holds glob patterns (matched against the path relative to
	// the stage dir, slash-separated) that exclude files outright.
	Ignore []string
}

// Finder discovers workbook files matching a set of criteria.
type Finder struct {
	criteria Criteria
	exts     map[string]bool
	ignore   []glob.Glob
}

// NewFinder compiles the criteria. Invalid ignore patterns fail here so a
// bad config surfaces at startup, not mid-scan.
func NewFinder(c Criteria) (*Finder, error) {
	f := &Finder{
		criteria: c,
		exts:     make(map[string]bool, len(c.Extensions)),
	}
	for _, ext := range c.Extensions {
		f.exts[strings.ToLower(ext)] = true
	}
	for _, pattern := range c.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		f.ignore = append(f.ignore, g)
	}
	return f, nil
}

// Find walks every stage directory and returns metadata for each
// qualifying file. A stage directory that cannot be read is logged and
// skipped; it never fails the whole scan.
func (f *Finder) Find() ([]extract.FileMeta, error) {
	var metas []extract.FileMeta

	for _, stageDir := range f.criteria.StageDirs {
		err := filepath.Walk(stageDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if path == stageDir {
					return err
				}
				log.Printf("Warning: error accessing %s: %v", path, err)
				return nil
			}
			if info.IsDir() {
				return nil
			}
			if !f.matches(stageDir, path, info) {
				return nil
			}
			metas = append(metas, metaFor(stageDir, path, info))
			return nil
		})
		if err != nil {
			log.Printf("Warning: cannot scan stage directory %s: %v", stageDir, err)
		}
	}
	return metas, nil
}

// Matches reports whether a single path (e.g. from a watcher event)
// currently qualifies, and returns its stage directory when it does.
func (f *Finder) Matches(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	for _, stageDir := range f.criteria.StageDirs {
		rel, err := filepath.Rel(stageDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if f.matches(stageDir, path, info) {
			return stageDir, true
		}
	}
	return "", false
}

// MetaFor builds the record metadata for a qualifying path under the
// given stage directory.
func (f *Finder) MetaFor(stageDir, path string) (extract.FileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return extract.FileMeta{}, err
	}
	return metaFor(stageDir, path, info), nil
}

func (f *Finder) matches(stageDir, path string, info os.FileInfo) bool {
	if !f.exts[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	name := info.Name()
	for _, inc := range f.criteria.Includes {
		if !strings.Contains(name, inc) {
			return false
		}
	}
	for _, exc := range f.criteria.Excludes {
		if strings.Contains(name, exc) {
			return false
		}
	}

	if f.criteria.ModelSubdir != "" && !underSubdir(stageDir, path, f.criteria.ModelSubdir) {
		return false
	}

	if !f.criteria.MinModified.IsZero() && info.ModTime().Before(f.criteria.MinModified) {
		return false
	}

	if rel, err := filepath.Rel(stageDir, path); err == nil {
		rel = filepath.ToSlash(rel)
		for _, g := range f.ignore {
			if g.Match(rel) {
				return false
			}
		}
	}
	return true
}

// underSubdir reports whether some directory component of path below
// stageDir equals subdir, case-insensitively.
func underSubdir(stageDir, path, subdir string) bool {
	rel, err := filepath.Rel(stageDir, filepath.Dir(path))
	if err != nil {
		return false
	}
	lower := strings.ToLower(subdir)
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.ToLower(part) == lower {
			return true
		}
	}
	return false
}

func metaFor(stageDir, path string, info os.FileInfo) extract.FileMeta {
	return extract.FileMeta{
		Name:       info.Name(),
		Path:       path,
		Stage:      filepath.Base(stageDir),
		StagePath:  stageDir,
		ModifiedAt: info.ModTime(),
		SizeBytes:  info.Size(),
	}
}
