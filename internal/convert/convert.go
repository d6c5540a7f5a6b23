// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders PlantUML diagram files to images by running the
// rendering engine as a child process.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/puml-render/internal/engine"
	"github.com/pdiddy/puml-render/pkg/types"
)

// Recorder receives every conversion attempt that reached the engine.
type Recorder func(types.HistoryRecord) error

// Option configures a Converter.
type Option func(*Converter)

// WithRecorder registers a hook that is called after each engine run.
// Recorder failures are logged and never change the conversion outcome.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.record = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithExists replaces the file existence check used for engine discovery.
func WithExists(fn func(string) bool) Option {
	return func(c *Converter) { c.exists = fn }
}

// Converter turns diagram files into images. The engine is located afresh
// on every call; a Converter holds no state between conversions.
type Converter struct {
	candidates []string
	override   string
	java       string
	runner     engine.Runner
	exists     func(string) bool
	record     Recorder
	logger     *log.Logger
}

// New creates a Converter that searches cfg.Candidates (or the built-in
// list when empty) and cfg.Override, and launches the engine with runner.
func New(cfg types.EngineConfig, runner engine.Runner, opts ...Option) *Converter {
	candidates := cfg.Candidates
	if len(candidates) == 0 {
		home, _ := os.UserHomeDir()
		candidates = engine.DefaultCandidates(home)
	}
	c := &Converter{
		candidates: candidates,
		override:   cfg.Override,
		java:       cfg.Java,
		runner:     runner,
		exists:     engine.FileExists,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Locate returns the engine the next conversion would use.
func (c *Converter) Locate() engine.Location {
	return engine.Locate(c.candidates, c.override, c.exists)
}

// Convert renders req.SourcePath with the engine, writing progress messages
// to w. A conversion the engine rejects is reported through the result with
// a nil error. The error is non-nil only for requests that fail validation,
// a missing engine (ErrEngineNotFound), an output directory that cannot be
// created, or an engine that cannot be launched (*ProcessError).
func (c *Converter) Convert(req types.ConversionRequest, w io.Writer) (types.ConversionResult, error) {
	if err := Validate(req); err != nil {
		return types.ConversionResult{}, err
	}

	loc := c.Locate()
	if !loc.Found() {
		return types.ConversionResult{}, fmt.Errorf(
			"%w: download it from %s or set %s to its location",
			ErrEngineNotFound, engine.DownloadURL, engine.OverrideEnv,
		)
	}
	c.logger.Debug("engine resolved", "path", string(loc))

	if req.OutputDir != "" {
		if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
			return types.ConversionResult{}, fmt.Errorf("creating output directory %s: %w", req.OutputDir, err)
		}
	}

	inv := engine.Command(loc, c.java, req)
	result := types.ConversionResult{OutputPath: OutputPath(req)}

	fmt.Fprintf(w, "Converting %s to %s...\n", req.SourcePath, req.Format.Upper())
	c.logger.Debug("running engine", "cmd", inv.String())

	start := time.Now()
	proc, err := c.runner.Run(inv.Name, inv.Args)
	if err != nil {
		return types.ConversionResult{}, &ProcessError{Command: inv.String(), Err: err}
	}
	elapsed := time.Since(start)

	if proc.ExitCode == 0 {
		result.Succeeded = true
		fmt.Fprintf(w, "Created: %s\n", result.OutputPath)
	} else {
		result.ErrorMessage = proc.Stderr
		fmt.Fprintf(w, "ERROR: %s\n", strings.TrimRight(proc.Stderr, "\n"))
	}
	c.logger.Debug("engine exited", "code", proc.ExitCode, "elapsed", elapsed.Round(time.Millisecond))

	c.recordAttempt(req, result, loc, proc, elapsed, start)
	return result, nil
}

func (c *Converter) recordAttempt(req types.ConversionRequest, res types.ConversionResult, loc engine.Location, proc engine.ProcessResult, elapsed time.Duration, at time.Time) {
	if c.record == nil {
		return
	}
	rec := types.HistoryRecord{
		SourcePath: req.SourcePath,
		Format:     req.Format,
		OutputPath: res.OutputPath,
		Engine:     string(loc),
		Succeeded:  res.Succeeded,
		ExitCode:   proc.ExitCode,
		Stderr:     proc.Stderr,
		Duration:   elapsed,
		CreatedAt:  at.UTC(),
	}
	if err := c.record(rec); err != nil {
		c.logger.Warn("could not record conversion", "source", req.SourcePath, "err", err)
	}
}

// Validate checks that the source file exists and the format is supported.
func Validate(req types.ConversionRequest) error {
	info, err := os.Stat(req.SourcePath)
	if err != nil {
		return &ValidationError{Field: "source", Value: req.SourcePath, Reason: "file not found"}
	}
	if info.IsDir() {
		return &ValidationError{Field: "source", Value: req.SourcePath, Reason: "is a directory"}
	}
	if _, err := types.ParseFormat(string(req.Format)); err != nil {
		return &ValidationError{Field: "format", Value: string(req.Format), Reason: "use 'png' or 'svg'"}
	}
	return nil
}

// OutputPath derives the image path for req: the source file's stem with
// the format extension, placed in req.OutputDir or next to the source.
// It does not check whether the file exists.
func OutputPath(req types.ConversionRequest) string {
	base := filepath.Base(req.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := req.OutputDir
	if dir == "" {
		dir = filepath.Dir(req.SourcePath)
	}
	return filepath.Join(dir, stem+"."+string(req.Format))
}
