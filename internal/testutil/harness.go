package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/ghostview/internal/app"
	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/hcl_adapter"
	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Deltas    []*sharva.Delta
	Err       error
	App       *app.App
}

// RunIntegrationTest writes files into a temporary directory, loads them as a
// diagram library and runs its step script in the given mode.
func RunIntegrationTest(t *testing.T, files map[string]string, mode forest.Mode) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, mode)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller provided
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, mode forest.Mode) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg := &app.Config{
		Paths:     []string{tmpDir},
		Mode:      mode,
		LogLevel:  "debug",
		LogFormat: "text",
	}
	outBuffer := &app.SafeBuffer{}
	logBuffer := &app.SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, logBuffer, cfg, hcl_adapter.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("GHOSTVIEW_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Deltas:    decodeDeltas(t, outBuffer.String()),
		Err:       runErr,
		App:       testApp,
	}
}

func decodeDeltas(t *testing.T, out string) []*sharva.Delta {
	t.Helper()
	var deltas []*sharva.Delta
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		d := &sharva.Delta{}
		require.NoError(t, json.Unmarshal([]byte(line), d), "delta line is not valid JSON: %s", line)
		deltas = append(deltas, d)
	}
	return deltas
}
