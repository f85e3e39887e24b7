package testutil

import (
	"strings"
	"testing"

	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/stretchr/testify/require"
)

// DeltaAt returns the delta committed by step i, failing the test when the
// run produced fewer deltas.
func DeltaAt(t *testing.T, result *HarnessResult, i int) *sharva.Delta {
	t.Helper()
	require.Greater(t, len(result.Deltas), i, "expected at least %d committed deltas", i+1)
	return result.Deltas[i]
}

// AssertStepRan checks the log output for the info line written when a
// deduction is opened or closed.
func AssertStepRan(t *testing.T, result *HarnessResult, action, libpath string) {
	t.Helper()

	var msg string
	switch action {
	case "open":
		msg = "Opened deduction."
	case "close":
		msg = "Closed deduction."
	default:
		t.Fatalf("unknown action %q", action)
	}
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, msg) && strings.Contains(line, "deduction="+libpath) {
			return
		}
	}
	t.Fatalf("expected log output for step '%s %s' was not found in logs", action, libpath)
}
