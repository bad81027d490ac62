// Package utils contains general helper functions used across autoreadme.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// PathSegmentSeparator separates segments of project-relative paths.
const PathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// SplitPathSegments normalizes separators and splits a relative path into its
// non-empty segments. "." segments are dropped.
func SplitPathSegments(relativePath string) []string {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", PathSegmentSeparator)
	rawSegments := strings.Split(normalizedPath, PathSegmentSeparator)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// ShouldIgnoreByPath reports whether a path relative to the processing root
// should be excluded from further processing. The candidate path and every
// ignore pattern are converted to forward-slash form before evaluation. Patterns
// are split into hierarchical segments, allowing nested directory prefixes such
// as "subdir/node_modules/" and "subdir/.clasp.json" to match. A pattern ending
// with a trailing slash matches the specified directory and all descendant paths,
// preventing recursion into that directory. A single-segment directory pattern
// such as "node_modules/" matches that directory at any depth. Other patterns
// match an exact path where each segment is evaluated with filepath.Match semantics.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", PathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, PathSegmentSeparator)
	lastSegment := ""
	if len(pathSegments) > 0 {
		lastSegment = pathSegments[len(pathSegments)-1]
	}

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(strings.TrimSpace(patternValue), "\\", PathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}

		normalizedPattern = strings.TrimPrefix(normalizedPattern, PathSegmentSeparator)
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, PathSegmentSeparator)
		trimmedPattern := strings.TrimSuffix(normalizedPattern, PathSegmentSeparator)
		patternSegments := strings.Split(trimmedPattern, PathSegmentSeparator)

		if isDirectoryPattern {
			if len(patternSegments) == 1 {
				for _, pathSegment := range pathSegments {
					isMatched, matchError := filepath.Match(patternSegments[0], pathSegment)
					if matchError == nil && isMatched {
						return true
					}
				}
				continue
			}
			if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
				return true
			}
			continue
		}

		if len(patternSegments) == 1 {
			isMatched, matchError := filepath.Match(patternSegments[0], lastSegment)
			if matchError == nil && isMatched {
				return true
			}
			continue
		}

		if len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments) {
			return true
		}
	}

	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}
