//go:build debug

package assert_test

import (
	"testing"

	testify "github.com/stretchr/testify/assert"

	"github.com/sufield/confdesk/internal/assert"
)

func TestInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fn      func()
		wantMsg string
	}{
		{name: "holds", fn: func() { assert.Invariant(true, "never shown") }},
		{name: "violated", fn: func() { assert.Invariant(false, "tickets balance") }, wantMsg: "INVARIANT VIOLATION: tickets balance"},
		{name: "empty message", fn: func() { assert.Invariant(false, "") }, wantMsg: "INVARIANT VIOLATION: "},
		{name: "formatted holds", fn: func() { assert.Invariantf(true, "%d deals", 3) }},
		{
			name:    "formatted violated",
			fn:      func() { assert.Invariantf(false, "%d of %d deals counted", 2, 3) },
			wantMsg: "INVARIANT VIOLATION: 2 of 3 deals counted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.wantMsg == "" {
				testify.NotPanics(t, tt.fn)
				return
			}
			testify.PanicsWithValue(t, tt.wantMsg, tt.fn)
		})
	}
}
