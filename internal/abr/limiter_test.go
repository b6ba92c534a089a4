package abr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwitchLimiter(t *testing.T) {
	params := StaticParams{
		Video: {SwitchUpIncrementally: true},
	}
	l := NewSwitchLimiter(params)

	testCases := []struct {
		desc     string
		category Category
		proposed int
		previous int
		expected int
	}{
		{"incremental up", Video, 4, 1, 2},
		{"incremental one step", Video, 2, 1, 2},
		{"incremental down", Video, 0, 3, 0},
		{"incremental equal", Video, 3, 3, 3},
		{"disabled up", Audio, 4, 1, 4},
		{"disabled down", Audio, 0, 2, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, l.Limit(tc.category, tc.proposed, tc.previous))
		})
	}
}

func TestSwitchLimiterNilParams(t *testing.T) {
	l := NewSwitchLimiter(nil)
	require.Equal(t, 4, l.Limit(Video, 4, 1))
}
