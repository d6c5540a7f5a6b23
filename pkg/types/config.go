// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EngineConfig holds settings for locating and launching the rendering engine.
type EngineConfig struct {
	// Candidates is the ordered list of paths checked for the engine.
	// Empty means the built-in list.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty" mapstructure:"candidates"`

	// Override is the explicit engine path, consulted only after every
	// candidate has been ruled out. Usually taken from PLANTUML_JAR.
	Override string `json:"override,omitempty" yaml:"override,omitempty" mapstructure:"override"`

	// Java is the Java launcher used for .jar engines (default "java").
	Java string `json:"java" yaml:"java" mapstructure:"java"`
}

// HistoryConfig holds settings for the conversion journal.
type HistoryConfig struct {
	// DBPath is the SQLite database file. Empty disables the journal.
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`

	// MaxResults is the default number of records listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Enabled reports whether a journal database is configured.
func (c HistoryConfig) Enabled() bool {
	return c.DBPath != ""
}

// RenderConfig groups all configuration for the CLI.
type RenderConfig struct {
	// Format is the default output format (default "png").
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// OutputDir is the default output directory.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" mapstructure:"output_dir"`

	Engine  EngineConfig  `json:"engine" yaml:"engine" mapstructure:"engine"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}
