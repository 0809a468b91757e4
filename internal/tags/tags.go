// Package tags derives classification labels for suite cases from the path
// of the file that declares them.
package tags

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// Root is the directory marker below which path segments become tags
const Root = "specs"

// legacyRoot is the marker used by suites laid out as tests/<feature>/...
const legacyRoot = "tests"

// suffixes are stripped from the base name, repeatedly, before splitting on "."
var suffixes = []string{".go", ".ts", ".js", "_test", "_spec", ".spec", ".test", ".setup"}

// Derive returns "@"-prefixed labels for every directory segment after the
// last occurrence of root, followed by the dot-separated parts of the file's
// base name. Duplicates keep their first position.
func Derive(path, root string) []string {
	path = filepath.ToSlash(filepath.Clean(path))
	segments := strings.Split(path, "/")
	if len(segments) == 0 {
		return nil
	}
	name := segments[len(segments)-1]
	dirs := segments[:len(segments)-1]

	start := len(dirs)
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i] == root {
			start = i + 1
			break
		}
	}

	var out []string
	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" || label == "." {
			return
		}
		tag := "@" + label
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	for _, d := range dirs[start:] {
		add(d)
	}
	for _, part := range strings.Split(stripSuffixes(name), ".") {
		add(part)
	}
	return out
}

func stripSuffixes(name string) string {
	for {
		trimmed := false
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) && len(name) > len(s) {
				name = strings.TrimSuffix(name, s)
				trimmed = true
			}
		}
		if !trimmed {
			return name
		}
	}
}

// FromPath derives tags below the specs marker, falling back to tests
func FromPath(path string) []string {
	slashed := "/" + filepath.ToSlash(path)
	if !strings.Contains(slashed, "/"+Root+"/") && strings.Contains(slashed, "/"+legacyRoot+"/") {
		return Derive(path, legacyRoot)
	}
	return Derive(path, Root)
}

// Here derives tags from the source file of its caller
func Here() []string {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return nil
	}
	return FromPath(file)
}

// Match reports whether have contains every tag in want.
// An empty want matches everything.
func Match(have, want []string) bool {
	for _, w := range want {
		if !strings.HasPrefix(w, "@") {
			w = "@" + w
		}
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}
