package critic

import (
	"regexp"
	"strconv"

	"github.com/teranos/verdict/errors"
)

// Score line first ("SCORE: 7", "score = 7.5"), bare number fallback.
var (
	scoreLinePattern  = regexp.MustCompile(`(?im)^\s*score\s*[:=]\s*(-?\d+(?:\.\d+)?)\s*$`)
	bareNumberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// ParseScore extracts the numeric score from an LLM reply and clamps it
// to the scale. Critic prompts instruct the model to answer with a
// "SCORE: <n>" line; smaller models don't always comply, so the first
// bare number in the reply is accepted as a fallback.
func ParseScore(reply string, scale Scale) (float64, error) {
	var raw string
	if m := scoreLinePattern.FindStringSubmatch(reply); m != nil {
		raw = m[1]
	} else if m := bareNumberPattern.FindString(reply); m != "" {
		raw = m
	} else {
		return 0, errors.Newf("no score found in reply (%d chars)", len(reply))
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "unparseable score %q", raw)
	}

	return scale.Clamp(score), nil
}

// Clamp forces a score into the scale's bounds.
func (s Scale) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Normalize maps a clamped score onto 0..1.
func (s Scale) Normalize(v float64) float64 {
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}
