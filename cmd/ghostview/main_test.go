package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A syntax error makes loading panic inside app.NewApp().
	invalidHCL := `
		deduction "thm.Thm" {
			node "A" {
		// Missing closing braces here
	`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600))

	out := &bytes.Buffer{}
	runErr := run(out, &bytes.Buffer{}, []string{filePath})

	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Script(t *testing.T) {
	t.Parallel()

	src := `
deduction "lib.Def" {
  node "A" {}
}

deduction "lib.Use" {
  node "G" { ghost_of = "lib.Def.A" }
  node "B" {}
  edge "G" "B" {}
}

step "open"  { deduction = "lib.Use" }
step "open"  { deduction = "lib.Def" }
step "close" { deduction = "lib.Def" }
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diagram.hcl"), []byte(src), 0600))
	dotPath := filepath.Join(dir, "final.dot")

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, run(out, logs, []string{"--log-format", "json", "--dot-out", dotPath, dir}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], `"nodes_to_hide":["lib.Use.G"]`)
	require.Contains(t, lines[2], `"nodes_to_show":["lib.Use.G"]`)
	require.Contains(t, logs.String(), "Script finished.")

	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	require.Contains(t, string(dot), `"lib.Use.G"`)
}
