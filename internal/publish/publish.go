// Package publish delivers committed deltas to their consumers: a JSON
// lines stream and, optionally, a socket.io rendering client.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/specialistvlad/ghostview/internal/sharva"
)

// Publisher receives every committed delta in commit order.
type Publisher interface {
	Publish(ctx context.Context, d *sharva.Delta) error
	Close() error
}

// JSONLines writes each delta as one JSON object per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLines creates a publisher writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

func (j *JSONLines) Publish(_ context.Context, d *sharva.Delta) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(d); err != nil {
		return fmt.Errorf("failed to write delta %s: %w", d.ID, err)
	}
	return nil
}

func (j *JSONLines) Close() error { return nil }

// Multi fans a delta out to several publishers in order. Publishing stops at
// the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, d *sharva.Delta) error {
	for _, p := range m {
		if err := p.Publish(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every publisher and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

// payload turns a delta into the generic JSON shape socket.io serializes.
func payload(d *sharva.Delta) (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
