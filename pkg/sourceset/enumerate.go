// Package sourceset enumerates and loads the JavaScript and TypeScript
// source files under a project root.
package sourceset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// Sentinel errors for enumeration.
var (
	ErrRootNotFound     = errors.New("scan root not found")
	ErrRootNotDirectory = errors.New("scan root is not a directory")
)

// DefaultExtensions are the source extensions scanned when none are configured.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{"node_modules", "dist", "build", ".next", ".git", "coverage", "out"}

// Options controls which files Enumerate returns.
type Options struct {
	// Extensions lists accepted file extensions including the dot.
	Extensions []string
	// IgnoreDirs lists directory names that are skipped wherever they occur.
	IgnoreDirs []string
	// SkipVendored additionally skips paths enry classifies as vendored
	// (minified bundles, vendor/ trees, third-party copies).
	SkipVendored bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Extensions: slices.Clone(DefaultExtensions),
		IgnoreDirs: slices.Clone(DefaultIgnoreDirs),
	}
}

type walker struct {
	ctx          context.Context
	root         string
	resolvedRoot string
	extensions   map[string]bool
	ignoreDirs   map[string]bool
	skipVendored bool
	paths        []string
}

// Enumerate walks root and returns the sorted absolute paths of matching
// source files. Directory symlinks are never followed; a file symlink is
// included only when its target resolves inside root.
func Enumerate(ctx context.Context, root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, statErr := os.Stat(absRoot)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, absRoot)
		}

		return nil, fmt.Errorf("stat %s: %w", absRoot, statErr)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, absRoot)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", absRoot, err)
	}

	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	w := &walker{
		ctx:          ctx,
		root:         absRoot,
		resolvedRoot: resolvedRoot,
		extensions:   toSet(opts.Extensions, normalizeExtension),
		ignoreDirs:   toSet(opts.IgnoreDirs, func(s string) string { return s }),
		skipVendored: opts.SkipVendored,
	}

	walkErr := filepath.WalkDir(absRoot, w.visit)
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	slices.Sort(w.paths)

	return w.paths, nil
}

func (w *walker) visit(path string, entry fs.DirEntry, walkErr error) error {
	if ctxErr := w.ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	skip, err := shouldSkipNode(path, entry, walkErr)
	if skip || err != nil {
		return err
	}

	if entry.IsDir() {
		if path != w.root && w.ignoreDirs[entry.Name()] {
			return filepath.SkipDir
		}

		if path != w.root && w.skipVendored && enry.IsVendor(w.relative(path)+"/") {
			return filepath.SkipDir
		}

		return nil
	}

	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return nil
	}

	if w.skipVendored && enry.IsVendor(w.relative(path)) {
		return nil
	}

	if entry.Type()&fs.ModeSymlink != 0 && !w.symlinkInsideRoot(path) {
		return nil
	}

	if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
		return nil
	}

	w.paths = append(w.paths, path)

	return nil
}

// shouldSkipNode tolerates unreadable and vanished entries.
func shouldSkipNode(_ string, entry fs.DirEntry, walkErr error) (bool, error) {
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
			if entry != nil && entry.IsDir() {
				return true, filepath.SkipDir
			}

			return true, nil
		}

		return false, walkErr
	}

	if entry == nil {
		return true, nil
	}

	return false, nil
}

// symlinkInsideRoot reports whether a file symlink resolves to a regular
// file within the root.
func (w *walker) symlinkInsideRoot(path string) bool {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	rel, err := filepath.Rel(w.resolvedRoot, target)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *walker) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}

func toSet(values []string, normalize func(string) string) map[string]bool {
	set := make(map[string]bool, len(values))

	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = true
		}
	}

	return set
}
