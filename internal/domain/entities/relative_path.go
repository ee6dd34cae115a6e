package entities

import (
	"net/url"
	"path"
	"strings"
)

const (
	pathSeparator   = "/"
	parentSegment   = ".."
	syntheticPrefix = "prefix/"
)

// Relativize returns the path that leads from the directory holding base to
// target. Both arguments are slash-separated locations on the same host; the
// last component of base names a file unless base ends with a slash.
//
// target is returned unchanged when either argument is not a bare path (it
// carries a scheme, host, query or escape sequence) or when only one of them
// is rooted.
func Relativize(base, target string) string {
	if !isBarePath(base) || !isBarePath(target) {
		return target
	}

	cur := normalizePath(base)
	dest := normalizePath(target)
	if strings.HasPrefix(cur, pathSeparator) != strings.HasPrefix(dest, pathSeparator) {
		return target
	}

	cur = strings.TrimLeft(cur, pathSeparator)
	dest = strings.TrimLeft(dest, pathSeparator)

	if !strings.Contains(cur, pathSeparator) || !strings.Contains(dest, pathSeparator) {
		cur = syntheticPrefix + cur
		dest = syntheticPrefix + dest
	}

	if !strings.HasSuffix(cur, pathSeparator) {
		cur = cur[:strings.LastIndex(cur, pathSeparator)]
	}

	destFile := ""
	if !strings.HasSuffix(dest, pathSeparator) {
		lastSlash := strings.LastIndex(dest, pathSeparator)
		destFile = dest[lastSlash+1:]
		dest = dest[:lastSlash]
	}

	curSegments := splitSegments(cur)
	destSegments := splitSegments(dest)

	common := 0
	for common < len(curSegments) && common < len(destSegments) &&
		curSegments[common] == destSegments[common] {
		common++
	}

	parts := make([]string, 0, len(curSegments)+len(destSegments)+1)
	for i := common; i < len(curSegments); i++ {
		parts = append(parts, parentSegment)
	}
	parts = append(parts, destSegments[common:]...)
	parts = append(parts, destFile)

	return strings.Join(parts, pathSeparator)
}

// isBarePath reports whether location is nothing but a plain path.
func isBarePath(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Opaque == "" && parsed.Path == location
}

// normalizePath removes "." and "x/.." segments while keeping a trailing
// slash, so that a directory stays a directory.
func normalizePath(location string) string {
	if location == "" {
		return location
	}

	cleaned := path.Clean(location)
	if cleaned == "." {
		return ""
	}

	isDir := strings.HasSuffix(location, pathSeparator) ||
		strings.HasSuffix(location, "/.") ||
		strings.HasSuffix(location, "/..")
	if isDir && !strings.HasSuffix(cleaned, pathSeparator) {
		cleaned += pathSeparator
	}
	return cleaned
}

// splitSegments splits a slash-separated path, ignoring trailing slashes.
func splitSegments(location string) []string {
	return strings.Split(strings.TrimRight(location, pathSeparator), pathSeparator)
}
