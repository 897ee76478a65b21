// Package scanner provides file tree walking functionality with ignore pattern support.
// It respects .v2flowignore files with gitignore-style patterns and detects the
// front-end language of each file from its extension.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo represents information about a discovered file.
type FileInfo struct {
	Path     string // Relative path from the scan root, or the path as given
	FullPath string // Absolute path
	Language string // Detected language from extension
	Size     int64  // File size in bytes
}

// Options configures the scanner behavior.
type Options struct {
	SkipHidden      bool     // Skip hidden files and directories (starting with .)
	FollowSymlinks  bool     // Follow file symlinks that stay within root
	DefaultExcludes []string // Directory names never descended into
	IgnoreFileName  string   // Name of the ignore file (default: .v2flowignore)
	SupportedOnly   bool     // Drop files without a known language while walking
}

// DefaultOptions returns scanner options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		SkipHidden:     true,
		FollowSymlinks: false,
		IgnoreFileName: ".v2flowignore",
		SupportedOnly:  true,
		DefaultExcludes: []string{
			".git",
			".hg",
			".svn",
			".v2flow",
			"node_modules",
			"vendor",
			"dist",
			"build",
			"bin",
			"obj",
		},
	}
}

// Scanner provides file tree scanning capabilities.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
func New(opts Options) *Scanner {
	if opts.IgnoreFileName == "" {
		opts.IgnoreFileName = DefaultOptions().IgnoreFileName
	}
	return &Scanner{opts: opts}
}

// Scan recursively scans the directory at root and returns files in lexical
// walk order.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	rootPatterns, err := s.loadIgnorePatterns(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}
	sets := []ignoreSet{{patterns: rootPatterns}}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			// unreadable entries are skipped
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil || relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if s.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if s.isDefaultExcluded(d.Name()) || ignored(sets, relPath, true) {
				return filepath.SkipDir
			}
			if nested, err := s.loadIgnorePatterns(path); err == nil && len(nested) > 0 {
				sets = append(sets, ignoreSet{base: relPath, patterns: nested})
			}
			return nil
		}

		if ignored(sets, relPath, false) {
			return nil
		}

		info, ok := s.fileInfo(absRoot, path, d)
		if !ok {
			return nil
		}

		language := DetectLanguage(path)
		if s.opts.SupportedOnly && language == "" {
			return nil
		}

		files = append(files, FileInfo{
			Path:     relPath,
			FullPath: path,
			Language: language,
			Size:     info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return files, nil
}

// fileInfo stats a regular file, resolving symlinks when allowed. Symlinks
// leaving root and symlinked directories are rejected.
func (s *Scanner) fileInfo(absRoot, path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink == 0 {
		info, err := d.Info()
		return info, err == nil && info.Mode().IsRegular()
	}
	if !s.opts.FollowSymlinks {
		return nil, false
	}
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false
	}
	realAbs, err := filepath.Abs(realPath)
	if err != nil {
		return nil, false
	}
	if !strings.HasPrefix(realAbs, absRoot+string(filepath.Separator)) {
		return nil, false
	}
	info, err := os.Stat(realAbs)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}

// Collect resolves command-line inputs. Files are kept as given whatever
// their extension, so the caller can report unsupported ones; directories
// are scanned. A file reached twice is listed once, at its first position.
func (s *Scanner) Collect(paths []string) ([]FileInfo, error) {
	seen := make(map[string]bool)
	var files []FileInfo
	add := func(f FileInfo) {
		if !seen[f.FullPath] {
			seen[f.FullPath] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("getting absolute path: %w", err)
			}
			add(FileInfo{Path: p, FullPath: abs, Language: DetectLanguage(p), Size: info.Size()})
			continue
		}

		found, err := s.Scan(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			f.Path = filepath.Join(p, filepath.FromSlash(f.Path))
			add(f)
		}
	}
	return files, nil
}

// isDefaultExcluded checks if the name matches default exclusion patterns.
func (s *Scanner) isDefaultExcluded(name string) bool {
	for _, exclude := range s.opts.DefaultExcludes {
		if strings.EqualFold(name, exclude) {
			return true
		}
	}
	return false
}

// loadIgnorePatterns loads ignore patterns from the ignore file in dir.
// A missing file yields no patterns.
func (s *Scanner) loadIgnorePatterns(dir string) ([]IgnorePattern, error) {
	f, err := os.Open(filepath.Join(dir, s.opts.IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ParseIgnoreFile(f)
}

// Scan is a convenience function that scans a directory with default options.
func Scan(root string) ([]FileInfo, error) {
	return New(DefaultOptions()).Scan(root)
}

// ScanWithOptions scans a directory with custom options.
func ScanWithOptions(root string, opts Options) ([]FileInfo, error) {
	return New(opts).Scan(root)
}
