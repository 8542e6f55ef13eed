package critic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		scale   Scale
		want    float64
		wantErr bool
	}{
		{
			name:  "score line",
			reply: "The writing is clear.\nSCORE: 7",
			scale: DefaultScale,
			want:  7,
		},
		{
			name:  "score line lowercase with equals",
			reply: "score = 8.5",
			scale: DefaultScale,
			want:  8.5,
		},
		{
			name:  "score line wins over earlier numbers",
			reply: "I found 3 issues.\nScore: 4",
			scale: DefaultScale,
			want:  4,
		},
		{
			name:  "bare number fallback",
			reply: "I'd give this a 6 out of 10.",
			scale: DefaultScale,
			want:  6,
		},
		{
			name:  "clamped above max",
			reply: "SCORE: 15",
			scale: DefaultScale,
			want:  10,
		},
		{
			name:  "clamped below min",
			reply: "SCORE: -2",
			scale: DefaultScale,
			want:  1,
		},
		{
			name:  "custom scale",
			reply: "SCORE: 3",
			scale: Scale{Min: 0, Max: 5},
			want:  3,
		},
		{
			name:    "no number anywhere",
			reply:   "This is excellent work.",
			scale:   DefaultScale,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScore(tt.reply, tt.scale)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleNormalize(t *testing.T) {
	s := Scale{Min: 1, Max: 10}

	assert.Equal(t, 0.0, s.Normalize(1))
	assert.Equal(t, 1.0, s.Normalize(10))
	assert.InDelta(t, 0.5, s.Normalize(5.5), 1e-9)

	// Out-of-range input is clamped first
	assert.Equal(t, 0.0, s.Normalize(-3))
	assert.Equal(t, 1.0, s.Normalize(99))
}
