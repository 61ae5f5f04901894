// Package runner renders many markup files concurrently.
package runner

import (
	"path/filepath"
	"strings"
)

// Options controls a batch render.
type Options struct {
	// Paths are files or directories to render. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and is the root that output
	// paths under OutDir mirror. Empty means the process directory.
	WorkingDir string

	// Extensions are the source extensions, lowercase with a leading
	// dot. Empty means DefaultExtensions.
	Extensions []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks walks symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent workers. 0 or negative means GOMAXPROCS.
	Jobs int

	// MaxInputBytes rejects larger sources before reading them.
	MaxInputBytes int64

	// OutExtension replaces the source extension. Empty means ".html".
	OutExtension string

	// OutDir receives outputs, mirroring the source tree below
	// WorkingDir. Empty writes next to each source.
	OutDir string
}

// DefaultExtensions returns the default set of source file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// OutputPath returns where the render of src is written. src must be
// absolute; workDir must be absolute when OutDir is set.
func (o Options) OutputPath(src, workDir string) string {
	ext := o.OutExtension
	if ext == "" {
		ext = ".html"
	}
	target := strings.TrimSuffix(src, filepath.Ext(src)) + ext

	if o.OutDir == "" {
		return target
	}

	rel, err := filepath.Rel(workDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(target)
	}
	outDir := o.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}
	return filepath.Join(outDir, rel)
}
