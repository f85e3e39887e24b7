package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:  "simple path",
			rawID: "thm.Pf.A1",
			expectedAddr: &Address{
				Segments: []Segment{Seg("thm"), Seg("Pf"), Seg("A1")},
			},
		},
		{
			name:  "indexed deduction",
			rawID: "thm.Pf[3].A1",
			expectedAddr: &Address{
				Segments: []Segment{Seg("thm"), IndexedSeg("Pf", 3), Seg("A1")},
			},
		},
		{
			name:  "zero index",
			rawID: "thm[0]",
			expectedAddr: &Address{
				Segments: []Segment{IndexedSeg("thm", 0)},
			},
		},
		{
			name:      "error - empty path segment",
			rawID:     "a..b",
			expectErr: true,
		},
		{
			name:      "error - invalid segment format",
			rawID:     "a.b[x]",
			expectErr: true,
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - invalid segment name hyphen",
			rawID:     "a.b.-.c",
			expectErr: true,
		},
		{
			name:      "error - invalid segment name just dot",
			rawID:     ".",
			expectErr: true,
		},
		{
			name:      "error - trailing text after index",
			rawID:     "thm.Pf[1]x",
			expectErr: true,
		},
		{
			name:      "error - negative index",
			rawID:     "thm.Pf[-1]",
			expectErr: true,
		},
		{
			name:      "error - whitespace",
			rawID:     "thm. Pf",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "Parsed address does not match expected address")
		})
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
	assert.NotPanics(t, func() { MustParse("a.b") })
}
