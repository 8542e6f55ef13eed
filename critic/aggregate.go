package critic

// Result is one critic's verdict on one piece of content.
type Result struct {
	Critic     string  `json:"critic"`
	Score      float64 `json:"score"`
	Normalized float64 `json:"normalized"`
	Weight     float64 `json:"weight"`
	Reply      string  `json:"reply,omitempty"`
	Model      string  `json:"model,omitempty"`
	Err        string  `json:"error,omitempty"`
}

// Summary aggregates normalized scores across critics. Failed critics
// are counted but excluded from the statistics.
type Summary struct {
	Mean         float64 `json:"mean"`
	WeightedMean float64 `json:"weighted_mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Scored       int     `json:"scored"`
	Failed       int     `json:"failed"`
}

// Aggregate folds per-critic results into a summary of their normalized
// scores. All-zero weights degrade the weighted mean to the plain mean
// rather than dividing by zero.
func Aggregate(results []Result) Summary {
	s := Summary{}

	var sum, weightedSum, weightTotal float64
	for _, r := range results {
		if r.Err != "" {
			s.Failed++
			continue
		}

		if s.Scored == 0 {
			s.Min, s.Max = r.Normalized, r.Normalized
		} else {
			if r.Normalized < s.Min {
				s.Min = r.Normalized
			}
			if r.Normalized > s.Max {
				s.Max = r.Normalized
			}
		}

		sum += r.Normalized
		weightedSum += r.Normalized * r.Weight
		weightTotal += r.Weight
		s.Scored++
	}

	if s.Scored > 0 {
		s.Mean = sum / float64(s.Scored)
		if weightTotal > 0 {
			s.WeightedMean = weightedSum / weightTotal
		} else {
			s.WeightedMean = s.Mean
		}
	}

	return s
}
