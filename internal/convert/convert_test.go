// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/puml-render/internal/engine"
	"github.com/pdiddy/puml-render/pkg/types"
)

// fakeRunner implements engine.Runner for testing. It records every call
// and returns a canned result or launch error.
type fakeRunner struct {
	result engine.ProcessResult
	err    error
	calls  []engine.Invocation
}

func (f *fakeRunner) Run(name string, args []string) (engine.ProcessResult, error) {
	f.calls = append(f.calls, engine.Invocation{Name: name, Args: append([]string(nil), args...)})
	if f.err != nil {
		return engine.ProcessResult{}, f.err
	}
	return f.result, nil
}

const testJar = "/opt/plantuml/plantuml.jar"

// newTestConverter returns a Converter whose only discoverable engine is
// testJar, or no engine at all when found is false.
func newTestConverter(r engine.Runner, found bool, opts ...Option) *Converter {
	exists := func(p string) bool { return found && p == testJar }
	cfg := types.EngineConfig{Candidates: []string{"plantuml.jar", testJar}}
	return New(cfg, r, append([]Option{WithExists(exists)}, opts...)...)
}

// setupDiagram chdirs into a temp dir holding diagram.puml.
func setupDiagram(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile("diagram.puml", []byte("@startuml\nA -> B\n@enduml\n"), 0o644))
	return dir
}

func TestConvert_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		req      types.ConversionRequest
		proc     engine.ProcessResult
		want     types.ConversionResult
		wantArgs []string
		wantLog  string
	}{
		{
			name:     "png next to source",
			req:      types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG},
			want:     types.ConversionResult{Succeeded: true, OutputPath: "diagram.png"},
			wantArgs: []string{"-jar", testJar, "--png", "diagram.puml"},
			wantLog:  "Created: diagram.png",
		},
		{
			name:     "svg into output dir",
			req:      types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatSVG, OutputDir: "out/"},
			want:     types.ConversionResult{Succeeded: true, OutputPath: filepath.Join("out", "diagram.svg")},
			wantArgs: []string{"-jar", testJar, "--svg", "--output-dir", "out/", "diagram.puml"},
			wantLog:  "Converting diagram.puml to SVG...",
		},
		{
			name:     "engine exits non-zero",
			req:      types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG},
			proc:     engine.ProcessResult{ExitCode: 1, Stderr: "syntax error"},
			want:     types.ConversionResult{OutputPath: "diagram.png", ErrorMessage: "syntax error"},
			wantArgs: []string{"-jar", testJar, "--png", "diagram.puml"},
			wantLog:  "ERROR: syntax error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupDiagram(t)
			runner := &fakeRunner{result: tt.proc}
			var out bytes.Buffer

			got, err := newTestConverter(runner, true).Convert(tt.req, &out)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, runner.calls, 1, "exactly one engine process per call")
			assert.Equal(t, "java", runner.calls[0].Name)
			assert.Equal(t, tt.wantArgs, runner.calls[0].Args)
			assert.Contains(t, out.String(), tt.wantLog)
		})
	}
}

func TestConvert_CreatesOutputDir(t *testing.T) {
	setupDiagram(t)
	runner := &fakeRunner{}
	outDir := filepath.Join("out", "nested", "images")

	res, err := newTestConverter(runner, true).Convert(types.ConversionRequest{
		SourcePath: "diagram.puml", Format: types.FormatSVG, OutputDir: outDir,
	}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(outDir, "diagram.svg"), res.OutputPath)
}

func TestConvert_EngineNotFound(t *testing.T) {
	setupDiagram(t)
	runner := &fakeRunner{}

	_, err := newTestConverter(runner, false).Convert(types.ConversionRequest{
		SourcePath: "diagram.puml", Format: types.FormatPNG, OutputDir: "out",
	}, &bytes.Buffer{})

	require.ErrorIs(t, err, ErrEngineNotFound)
	assert.Contains(t, err.Error(), engine.OverrideEnv)
	assert.Contains(t, err.Error(), engine.DownloadURL)
	assert.Empty(t, runner.calls, "no process may be spawned")
	assert.NoDirExists(t, "out")
}

func TestConvert_OverrideUsedAfterCandidates(t *testing.T) {
	setupDiagram(t)
	runner := &fakeRunner{}
	override := "/custom/plantuml"
	exists := func(p string) bool { return p == override }

	c := New(types.EngineConfig{Candidates: []string{"plantuml.jar"}, Override: override}, runner, WithExists(exists))
	res, err := c.Convert(types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, override, runner.calls[0].Name)
}

func TestConvert_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       types.ConversionRequest
		wantField string
	}{
		{
			name:      "missing source",
			req:       types.ConversionRequest{SourcePath: "missing.puml", Format: types.FormatPNG},
			wantField: "source",
		},
		{
			name:      "source is a directory",
			req:       types.ConversionRequest{SourcePath: ".", Format: types.FormatPNG},
			wantField: "source",
		},
		{
			name:      "unsupported format",
			req:       types.ConversionRequest{SourcePath: "diagram.puml", Format: "pdf"},
			wantField: "format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupDiagram(t)
			runner := &fakeRunner{}

			_, err := newTestConverter(runner, true).Convert(tt.req, &bytes.Buffer{})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Empty(t, runner.calls, "no process may be spawned")
		})
	}
}

func TestConvert_LaunchFailure(t *testing.T) {
	setupDiagram(t)
	launchErr := errors.New("exec: \"java\": executable file not found in $PATH")
	runner := &fakeRunner{err: launchErr}

	_, err := newTestConverter(runner, true).Convert(types.ConversionRequest{
		SourcePath: "diagram.puml", Format: types.FormatPNG,
	}, &bytes.Buffer{})

	var perr *ProcessError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, launchErr)
	assert.Contains(t, perr.Command, "java -jar")
	assert.NotErrorIs(t, err, ErrEngineNotFound)
}

func TestConvert_Idempotent(t *testing.T) {
	setupDiagram(t)
	runner := &fakeRunner{result: engine.ProcessResult{ExitCode: 2, Stderr: "bad"}}
	c := newTestConverter(runner, true)
	req := types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatSVG, OutputDir: "out"}

	first, err := c.Convert(req, &bytes.Buffer{})
	require.NoError(t, err)
	second, err := c.Convert(req, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, runner.calls, 2)
}

func TestConvert_Recorder(t *testing.T) {
	setupDiagram(t)

	t.Run("records success and failure", func(t *testing.T) {
		var recs []types.HistoryRecord
		rec := WithRecorder(func(r types.HistoryRecord) error {
			recs = append(recs, r)
			return nil
		})
		req := types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG}

		_, err := newTestConverter(&fakeRunner{}, true, rec).Convert(req, &bytes.Buffer{})
		require.NoError(t, err)
		_, err = newTestConverter(&fakeRunner{result: engine.ProcessResult{ExitCode: 1, Stderr: "oops"}}, true, rec).Convert(req, &bytes.Buffer{})
		require.NoError(t, err)

		require.Len(t, recs, 2)
		assert.True(t, recs[0].Succeeded)
		assert.Equal(t, testJar, recs[0].Engine)
		assert.Equal(t, "diagram.png", recs[0].OutputPath)
		assert.False(t, recs[1].Succeeded)
		assert.Equal(t, 1, recs[1].ExitCode)
		assert.Equal(t, "oops", recs[1].Stderr)
	})

	t.Run("recorder failure does not fail conversion", func(t *testing.T) {
		rec := WithRecorder(func(types.HistoryRecord) error { return errors.New("disk full") })
		res, err := newTestConverter(&fakeRunner{}, true, rec).Convert(
			types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, res.Succeeded)
	})

	t.Run("not called when engine is missing", func(t *testing.T) {
		called := false
		rec := WithRecorder(func(types.HistoryRecord) error { called = true; return nil })
		_, err := newTestConverter(&fakeRunner{}, false, rec).Convert(
			types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG}, &bytes.Buffer{})
		require.Error(t, err)
		assert.False(t, called)
	})
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		req  types.ConversionRequest
		want string
	}{
		{types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatPNG}, "diagram.png"},
		{types.ConversionRequest{SourcePath: "diagram.puml", Format: types.FormatSVG, OutputDir: "out/"}, filepath.Join("out", "diagram.svg")},
		{types.ConversionRequest{SourcePath: "docs/arch/flow.puml", Format: types.FormatPNG}, filepath.Join("docs", "arch", "flow.png")},
		{types.ConversionRequest{SourcePath: "docs/seq.v2.puml", Format: types.FormatSVG, OutputDir: "/tmp/img"}, filepath.Join("/tmp/img", "seq.v2.svg")},
		{types.ConversionRequest{SourcePath: "noext", Format: types.FormatPNG}, "noext.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.req))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	verr := &ValidationError{Field: "format", Value: "gif", Reason: "use 'png' or 'svg'"}
	assert.Equal(t, `invalid format "gif": use 'png' or 'svg'`, verr.Error())

	perr := &ProcessError{Command: "java -jar plantuml.jar", Err: errors.New("boom")}
	assert.Equal(t, `running engine "java -jar plantuml.jar": boom`, perr.Error())
}
