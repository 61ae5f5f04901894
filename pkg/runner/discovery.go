package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds source files matching opts. It returns a sorted,
// de-duplicated list of absolute paths. Hidden files and directories
// found while walking are skipped; a hidden file named explicitly is not.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileExcludes(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := walker{ctx: ctx, workDir: workDir, opts: opts, excludes: excludes, seen: make(map[string]struct{})}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(abs); err != nil {
				return nil, err
			}
			continue
		}
		if w.wanted(abs) {
			w.add(abs)
		}
	}

	sort.Strings(w.files)
	return w.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type walker struct {
	ctx      context.Context
	workDir  string
	opts     Options
	excludes excluder
	seen     map[string]struct{}
	files    []string
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// wanted reports whether a file has a source extension and is not excluded.
func (w *walker) wanted(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.opts.effectiveExtensions() {
		if strings.ToLower(e) == ext {
			return !w.excludes.match(w.rel(path), false)
		}
	}
	return false
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (path != root && w.excludes.match(w.rel(path), true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				// WalkDir does not follow the link itself, so walk the target.
				return w.walk(target)
			}
		}

		if w.wanted(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// excluder matches slash-separated paths relative to the working
// directory. A pattern without a slash also matches the base name, and a
// leading "**/" may match nothing.
type excluder []glob.Glob

func compileExcludes(patterns []string) (excluder, error) {
	var out excluder
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		variants := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, rest)
		}
		if !strings.Contains(pattern, "/") {
			variants = append(variants, "**/"+pattern)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

func (e excluder) match(relPath string, dir bool) bool {
	relPath = filepath.ToSlash(relPath)
	for _, g := range e {
		if g.Match(relPath) || (dir && g.Match(relPath+"/")) {
			return true
		}
	}
	return false
}
