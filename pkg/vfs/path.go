package vfs

import (
	"regexp"
	"strings"
)

// HomePath is the directory that "~" expands to and that new sessions start in.
const HomePath = "/home/visitor"

// Root is the path of the tree root.
const Root = "/"

var slashRuns = regexp.MustCompile(`/+`)

// Normalize collapses repeated slashes and strips a trailing slash.
// The empty string maps to the root. Dot segments are left untouched;
// use Resolve to apply them.
func Normalize(p string) string {
	if p == "" || p == Root {
		return Root
	}

	p = slashRuns.ReplaceAllString(p, "/")
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}

	return p
}

// IsAbs returns true if the path is absolute.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Resolve interprets input relative to base. "~" and "~/..." expand to
// HomePath, absolute input ignores base, and ".." never climbs above the
// root. Resolve always yields a path; whether it exists is up to the tree.
func Resolve(base, input string) string {
	switch {
	case input == "" || input == ".":
		return Normalize(base)
	case input == "~":
		return HomePath
	case strings.HasPrefix(input, "~/"):
		return Normalize(HomePath + "/" + input[2:])
	case IsAbs(input):
		return Normalize(input)
	}

	base = Normalize(base)
	parts := []string{""}
	if base != Root {
		parts = strings.Split(base, "/")
	}

	for _, seg := range strings.Split(input, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) > 1 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}

	if joined := strings.Join(parts, "/"); joined != "" {
		return joined
	}
	return Root
}

// Parent returns all but the last element of the path.
// The parent of the root is the root.
func Parent(p string) string {
	p = Normalize(p)
	if p == Root {
		return Root
	}

	lastSlash := strings.LastIndex(p, "/")
	if lastSlash <= 0 {
		return Root
	}
	return p[:lastSlash]
}

// Base returns the last element of the path. The base of the root is "/".
func Base(p string) string {
	p = Normalize(p)
	if p == Root {
		return Root
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// Join joins path elements with slashes and normalizes the result.
func Join(elem ...string) string {
	return Normalize(strings.Join(elem, "/"))
}

// Split splits the path into directory and base components.
func Split(p string) (dir, base string) {
	return Parent(p), Base(p)
}

// Segments returns the non-empty elements of a normalized path.
func Segments(p string) []string {
	p = Normalize(p)
	if p == Root {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// Display renders a path for prompts, abbreviating HomePath to "~".
func Display(p string) string {
	p = Normalize(p)

	if p == HomePath {
		return "~"
	}
	if strings.HasPrefix(p, HomePath+"/") {
		return "~" + p[len(HomePath):]
	}

	return p
}
