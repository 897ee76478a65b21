package scanner

import (
	"bufio"
	"io"
	"path"
	"strings"
)

// IgnorePattern represents a single gitignore-style pattern.
type IgnorePattern struct {
	raw      string
	negate   bool     // pattern starts with !
	dirOnly  bool     // pattern ends with /
	anchored bool     // pattern contains a slash before its last character
	segments []string // glob per path segment, ** spans segments
}

// ParseIgnorePattern parses a gitignore-style pattern string.
func ParseIgnorePattern(line string) IgnorePattern {
	p := IgnorePattern{raw: line}

	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		p.anchored = true
	}

	p.segments = strings.Split(line, "/")
	return p
}

// ParseIgnoreFile reads one pattern per line, skipping blanks and # comments.
func ParseIgnoreFile(r io.Reader) ([]IgnorePattern, error) {
	var patterns []IgnorePattern
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, ParseIgnorePattern(line))
	}
	return patterns, sc.Err()
}

func (p IgnorePattern) String() string { return p.raw }

// IsNegation returns true if this pattern is a negation pattern.
func (p IgnorePattern) IsNegation() bool {
	return p.negate
}

// Match reports whether relPath, slash separated and relative to the
// directory holding the pattern, is covered by the pattern. A path inside a
// matched directory is covered too. Unanchored patterns may match starting
// at any directory level.
func (p IgnorePattern) Match(relPath string, isDir bool) bool {
	segs := strings.Split(relPath, "/")
	if p.anchored {
		return p.matchFrom(segs, isDir)
	}
	for i := range segs {
		if p.matchFrom(segs[i:], isDir) {
			return true
		}
	}
	return false
}

func (p IgnorePattern) matchFrom(segs []string, isDir bool) bool {
	for k := 1; k <= len(segs); k++ {
		if !globSegments(p.segments, segs[:k]) {
			continue
		}
		if k < len(segs) {
			// a leading directory matched
			return true
		}
		return !p.dirOnly || isDir
	}
	return false
}

func globSegments(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(segs); i++ {
			if globSegments(pattern[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return globSegments(pattern[1:], segs[1:])
}

// ignoreSet is the pattern list of one ignore file, scoped to the
// directory that holds it.
type ignoreSet struct {
	base     string // slash separated, relative to the scan root; "" for the root
	patterns []IgnorePattern
}

// ignored applies the sets in order; later patterns, including negations,
// override earlier ones.
func ignored(sets []ignoreSet, relPath string, isDir bool) bool {
	result := false
	for _, set := range sets {
		rel := relPath
		if set.base != "" {
			if !strings.HasPrefix(relPath, set.base+"/") {
				continue
			}
			rel = strings.TrimPrefix(relPath, set.base+"/")
		}
		for _, p := range set.patterns {
			if p.Match(rel, isDir) {
				result = !p.negate
			}
		}
	}
	return result
}
