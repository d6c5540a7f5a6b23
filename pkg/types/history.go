// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryRecord is one conversion attempt that reached the engine.
type HistoryRecord struct {
	ID         int64         `json:"id" yaml:"id"`
	SourcePath string        `json:"source_path" yaml:"source_path"`
	Format     Format        `json:"format" yaml:"format"`
	OutputPath string        `json:"output_path" yaml:"output_path"`
	Engine     string        `json:"engine" yaml:"engine"`
	Succeeded  bool          `json:"succeeded" yaml:"succeeded"`
	ExitCode   int           `json:"exit_code" yaml:"exit_code"`
	Stderr     string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	CreatedAt  time.Time     `json:"created_at" yaml:"created_at"`
}
