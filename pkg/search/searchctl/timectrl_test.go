package searchctl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rookery-chess/pinion/pkg/search/searchctl"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name            string
		opts            searchctl.GoOptions
		halfmovesPlayed int
		expectedDepth   int
		expectedLimit   time.Duration
	}{
		{
			name:          "infinite",
			opts:          searchctl.GoOptions{Infinite: true},
			expectedDepth: searchctl.DefaultMaxDepth,
		},
		{
			name:          "fixed depth",
			opts:          searchctl.GoOptions{HasDepth: true, Depth: 5},
			expectedDepth: 5,
		},
		{
			name: "wtime with movestogo",
			opts: searchctl.GoOptions{
				HasClock: true, TimeLeft: 300_000 * time.Millisecond, MovesToGo: 41,
			},
			expectedDepth: searchctl.DefaultMaxDepth,
			expectedLimit: 7317 * time.Millisecond,
		},
		{
			name: "wtime with increment, no movestogo, floors to 500ms",
			opts: searchctl.GoOptions{
				HasClock: true, TimeLeft: 1234 * time.Millisecond, Increment: 33 * time.Millisecond,
			},
			expectedDepth: searchctl.DefaultMaxDepth,
			expectedLimit: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		budget := searchctl.Resolve(tt.opts, tt.halfmovesPlayed)
		assert.Equal(t, tt.expectedDepth, budget.MaxDepth, tt.name)
		if tt.expectedLimit > 0 {
			assert.True(t, budget.HasTimeLimit, tt.name)
			assert.Equal(t, tt.expectedLimit, budget.TimeLimit, tt.name)
		}
	}
}

func TestClockBudgetNeverExceedsTimeLeft(t *testing.T) {
	opts := searchctl.GoOptions{HasClock: true, TimeLeft: 900 * time.Millisecond, MovesToGo: 1}
	budget := searchctl.Resolve(opts, 0)
	assert.LessOrEqual(t, budget.TimeLimit, opts.TimeLeft)
}
