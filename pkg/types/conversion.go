// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Format is the image format the rendering engine produces.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat returns the Format named by s. Only "png" and "svg" are
// accepted; matching is exact.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid format %q: use %q or %q", s, FormatPNG, FormatSVG)
}

// Flag returns the engine command-line flag selecting this format.
// Anything other than svg renders PNG.
func (f Format) Flag() string {
	if f == FormatSVG {
		return "--svg"
	}
	return "--png"
}

// Upper returns the format name in upper case for progress messages.
func (f Format) Upper() string {
	return strings.ToUpper(string(f))
}

// ConversionRequest describes a single diagram conversion.
type ConversionRequest struct {
	// SourcePath is the diagram description file (e.g. "diagram.puml").
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Format selects the output image format.
	Format Format `json:"format" yaml:"format"`

	// OutputDir is the optional output directory. When empty, the image is
	// written next to the source file.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// ConversionResult is the outcome of a conversion attempt.
type ConversionResult struct {
	Succeeded bool `json:"succeeded" yaml:"succeeded"`

	// OutputPath is the derived image path. It is computed whether or not
	// the engine actually produced the file.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ErrorMessage holds the engine's standard error when Succeeded is false.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
