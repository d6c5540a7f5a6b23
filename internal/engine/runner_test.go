// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestOSRunner(t *testing.T) {
	sh := requireShell(t)

	tests := []struct {
		name       string
		script     string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "zero exit captures stdout",
			script:     "echo rendered",
			wantStdout: "rendered\n",
		},
		{
			name:       "non-zero exit is a result, not an error",
			script:     "echo 'syntax error' >&2; exit 1",
			wantCode:   1,
			wantStderr: "syntax error\n",
		},
		{
			name:     "exit code preserved",
			script:   "exit 3",
			wantCode: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewOSRunner().Run(sh, []string{"-c", tt.script})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, res.ExitCode)
			assert.Equal(t, tt.wantStdout, res.Stdout)
			assert.Equal(t, tt.wantStderr, res.Stderr)
		})
	}
}

func TestOSRunner_LaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-engine")

	_, err := NewOSRunner().Run(missing, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting")
}
