package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/hcl_adapter"
	"github.com/specialistvlad/ghostview/internal/publish"
	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const diagramHCL = `
deduction "thm.Thm" {
  node "A" {}
  node "C" {}
  edge "A" "C" {}
}

deduction "thm.Pf" {
  target = "thm.Thm.C"
  node "G" { ghost_of = "thm.Thm.A" }
  node "B" {}
  edge "G" "B" {}
}

step "open"  { deduction = "thm.Thm" }
step "open"  { deduction = "thm.Pf" }
step "close" { deduction = "thm.Pf" }
`

func writeDiagram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func decodeDeltas(t *testing.T, out string) []sharva.Delta {
	t.Helper()
	var deltas []sharva.Delta
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var d sharva.Delta
		require.NoError(t, json.Unmarshal([]byte(line), &d))
		deltas = append(deltas, d)
	}
	return deltas
}

func TestApp_Run(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "out.dot")
	cfg := &Config{
		Paths:  []string{writeDiagram(t, diagramHCL)},
		Mode:   forest.Unified,
		DotOut: dotPath,
	}
	a, out, logs := SetupAppTest(t, cfg, hcl_adapter.NewLoader())

	require.NoError(t, a.Run(context.Background()))
	assert.EqualValues(t, 3, a.Cycles())

	deltas := decodeDeltas(t, out.String())
	require.Len(t, deltas, 3)
	assert.Equal(t, "open", deltas[0].Kind)
	assert.Equal(t, "thm.Pf", deltas[1].Deduction)
	assert.Equal(t, []string{"thm.Pf:flow:thm.Thm.A->thm.Pf.B"}, deltas[1].EdgesToShow)
	assert.Equal(t, "close", deltas[2].Kind)
	assert.Equal(t, []string{"thm.Pf", "thm.Pf.B", "thm.Pf.G"}, deltas[2].NodesToRemove)
	assert.Less(t, deltas[0].ID, deltas[1].ID)

	assert.Equal(t, []string{"thm.Thm"}, a.Diagram().OpenDeductions())
	assert.Contains(t, logs.String(), "Real nodes no longer ghosted.")

	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"thm.Thm.A"`)
	assert.NotContains(t, string(dot), `"thm.Pf.B"`)
}

func TestApp_Run_StepFailure(t *testing.T) {
	src := diagramHCL + `
step "open" { deduction = "thm.Thm" }
`
	a, out, _ := SetupAppTest(t, &Config{Paths: []string{writeDiagram(t, src)}}, hcl_adapter.NewLoader())

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 3 (open thm.Thm")
	assert.Contains(t, err.Error(), "already open")
	assert.Len(t, decodeDeltas(t, out.String()), 3)
}

type capturePublisher struct {
	deltas []*sharva.Delta
	closed bool
}

func (c *capturePublisher) Publish(_ context.Context, d *sharva.Delta) error {
	c.deltas = append(c.deltas, d)
	return nil
}

func (c *capturePublisher) Close() error {
	c.closed = true
	return nil
}

func TestApp_Run_SocketIOPublisher(t *testing.T) {
	cfg := &Config{
		Paths:      []string{writeDiagram(t, diagramHCL)},
		PublishURL: "http://localhost:3000/ws",
	}
	a, _, _ := SetupAppTest(t, cfg, hcl_adapter.NewLoader())

	capture := &capturePublisher{}
	var dialed publish.SocketIOConfig
	a.dialSocketIO = func(_ context.Context, cfg publish.SocketIOConfig) (publish.Publisher, error) {
		dialed = cfg
		return capture, nil
	}
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "http://localhost:3000/ws", dialed.URL)
	assert.Len(t, capture.deltas, 3)
	assert.True(t, capture.closed)

	a, _, _ = SetupAppTest(t, cfg, hcl_adapter.NewLoader())
	a.dialSocketIO = func(context.Context, publish.SocketIOConfig) (publish.Publisher, error) {
		return nil, errors.New("refused")
	}
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect publisher: refused")
}

func TestNewApp_PanicsOnLoadFailure(t *testing.T) {
	cfg := &Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}}
	assert.PanicsWithError(t, "failed to load diagram library: no .hcl files found in ["+cfg.Paths[0]+"]", func() {
		NewApp(&SafeBuffer{}, &SafeBuffer{}, cfg, hcl_adapter.NewLoader())
	})
}

func TestHealthHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Paths: []string{writeDiagram(t, diagramHCL)}}, hcl_adapter.NewLoader())
	a.cycles.Store(7)

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK cycles=7\n", rec.Body.String())
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{Paths: []string{"d.hcl"}, LogLevel: "debug", LogFormat: "json"}},
		{name: "no paths", cfg: Config{}, wantErr: "at least one diagram path"},
		{name: "bad port", cfg: Config{Paths: []string{"d.hcl"}, HealthcheckPort: 70000}, wantErr: "out of range"},
		{name: "bad level", cfg: Config{Paths: []string{"d.hcl"}, LogLevel: "trace"}, wantErr: "invalid log level"},
		{name: "bad format", cfg: Config{Paths: []string{"d.hcl"}, LogFormat: "xml"}, wantErr: "invalid log format"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.Paths, cfg.Paths)
		})
	}
}
