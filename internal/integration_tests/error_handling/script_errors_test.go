package integration_tests

import (
	"testing"

	"github.com/specialistvlad/ghostview/internal/forest"
	"github.com/specialistvlad/ghostview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptErrors(t *testing.T) {
	testCases := []struct {
		name      string
		hcl       string
		expectErr []string
		deltas    int
	}{
		{
			name: "invalid hcl is rejected at startup",
			hcl: `
				deduction "lib.Def" {
					node "A" {
			`,
			expectErr: []string{"application startup panicked", "failed to parse HCL file"},
		},
		{
			name: "step names an unknown deduction",
			hcl: `
				deduction "lib.Def" {
					node "A" {}
				}
				step "open" { deduction = "lib.Nope" }
			`,
			expectErr: []string{"application startup panicked", "unknown deduction 'lib.Nope'"},
		},
		{
			name: "edge references an undeclared node",
			hcl: `
				deduction "lib.Def" {
					node "A" {}
					edge "A" "Missing" {}
				}
			`,
			expectErr: []string{"references undeclared node 'Missing'"},
		},
		{
			name: "target is not in the diagram",
			hcl: `
				deduction "thm.Thm" {
					node "C" {}
				}
				deduction "thm.Pf" {
					target = "thm.Thm.C"
					node "B" {}
				}
				step "open" { deduction = "thm.Pf" }
			`,
			expectErr: []string{"step 0 (open thm.Pf", "target 'thm.Thm.C' of deduction 'thm.Pf' is not in the diagram"},
		},
		{
			name: "deduction opened twice",
			hcl: `
				deduction "lib.Def" {
					node "A" {}
				}
				step "open" { deduction = "lib.Def" }
				step "open" { deduction = "lib.Def" }
			`,
			expectErr: []string{"step 1 (open lib.Def", "already open"},
			deltas:    1,
		},
		{
			name: "closing a deduction that is not open",
			hcl: `
				deduction "lib.Def" {
					node "A" {}
				}
				step "close" { deduction = "lib.Def" }
			`,
			expectErr: []string{"deduction 'lib.Def' is not open"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": tc.hcl}, forest.Unified)

			require.Error(t, result.Err)
			for _, want := range tc.expectErr {
				assert.ErrorContains(t, result.Err, want)
			}
			assert.Len(t, result.Deltas, tc.deltas)
		})
	}
}
