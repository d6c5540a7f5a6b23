// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine finds the PlantUML rendering engine and runs it as a
// child process. Discovery is a pure function over an explicit candidate
// list; process execution sits behind the Runner interface so callers can
// substitute a fake engine.
package engine

import (
	"os"
	"path/filepath"
)

// OverrideEnv names the environment variable holding an explicit engine
// path. It is consulted only after every candidate path has failed.
const OverrideEnv = "PLANTUML_JAR"

// DownloadURL is where users obtain the engine.
const DownloadURL = "https://plantuml.com/download"

// Location is a resolved path to the rendering engine.
type Location string

// NotFound is the Location returned when discovery fails.
const NotFound Location = ""

// Found reports whether l names an engine.
func (l Location) Found() bool { return l != NotFound }

// DefaultCandidates returns the built-in search order. Entries under the
// home directory are omitted when home is empty.
func DefaultCandidates(home string) []string {
	paths := []string{
		"plantuml.jar",
		"/usr/local/bin/plantuml.jar",
		"/usr/share/plantuml/plantuml.jar",
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, "plantuml.jar"),
			filepath.Join(home, "bin", "plantuml.jar"),
		)
	}
	return paths
}

// Locate returns the first candidate for which exists reports true. When
// no candidate matches, override is returned if it is set and exists.
// Otherwise Locate returns NotFound.
func Locate(candidates []string, override string, exists func(string) bool) Location {
	for _, p := range candidates {
		if p != "" && exists(p) {
			return Location(p)
		}
	}
	if override != "" && exists(override) {
		return Location(override)
	}
	return NotFound
}

// FileExists reports whether path names an existing non-directory file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
