package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDelta(id string) *sharva.Delta {
	d := sharva.New().Delta()
	d.ID = id
	d.Kind = "open"
	d.Deduction = "thm.Thm"
	d.NodesToShow = []string{"thm.Thm", "thm.Thm.A"}
	return d
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONLines(&buf)
	require.NoError(t, p.Publish(context.Background(), sampleDelta("01A")))
	require.NoError(t, p.Publish(context.Background(), sampleDelta("01B")))
	require.NoError(t, p.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got sharva.Delta
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, "01B", got.ID)
	assert.Equal(t, []string{"thm.Thm", "thm.Thm.A"}, got.NodesToShow)
	assert.Contains(t, lines[0], `"nodes_to_hide":[]`)
}

type failing struct{ closed bool }

func (f *failing) Publish(context.Context, *sharva.Delta) error { return errors.New("boom") }
func (f *failing) Close() error {
	f.closed = true
	return errors.New("close boom")
}

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	bad := &failing{}
	m := Multi{bad, NewJSONLines(&buf)}

	err := m.Publish(context.Background(), sampleDelta("01A"))
	require.EqualError(t, err, "boom")
	assert.Empty(t, buf.String())

	err = m.Close()
	require.Error(t, err)
	assert.True(t, bad.closed)
	assert.Contains(t, err.Error(), "close boom")
}

func TestSocketIO_Publish(t *testing.T) {
	type emitted struct {
		event string
		data  any
	}
	var got []emitted
	connected := true
	disconnected := false
	s := &SocketIO{
		event:      DefaultEvent,
		emit:       func(ev string, data any) { got = append(got, emitted{ev, data}) },
		connected:  func() bool { return connected },
		disconnect: func() { disconnected = true },
	}

	require.NoError(t, s.Publish(context.Background(), sampleDelta("01A")))
	require.Len(t, got, 1)
	assert.Equal(t, "delta", got[0].event)
	data, ok := got[0].data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "01A", data["id"])
	assert.Equal(t, "thm.Thm", data["deduction"])
	assert.Equal(t, []any{"thm.Thm", "thm.Thm.A"}, data["nodes_to_show"])

	connected = false
	assert.Error(t, s.Publish(context.Background(), sampleDelta("01B")))
	assert.Len(t, got, 1)

	require.NoError(t, s.Close())
	assert.True(t, disconnected)
}

func TestDialSocketIO_Errors(t *testing.T) {
	t.Run("url without host", func(t *testing.T) {
		_, err := DialSocketIO(context.Background(), SocketIOConfig{URL: "localhost"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must include a scheme and host")
	})

	t.Run("nothing listening", func(t *testing.T) {
		_, err := DialSocketIO(context.Background(), SocketIOConfig{
			URL:     "http://127.0.0.1:1",
			Timeout: 2 * time.Second,
		})
		require.Error(t, err)
	})
}

func TestConnectError(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want string
	}{
		{name: "no arguments", args: nil, want: "connect_error"},
		{name: "error argument", args: []any{errors.New("refused")}, want: "refused"},
		{name: "other argument", args: []any{map[string]any{"message": "denied"}}, want: "map[message:denied]"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualError(t, connectError(tc.args), tc.want)
		})
	}
}
