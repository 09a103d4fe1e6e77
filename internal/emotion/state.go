package emotion

import "math"

// State is a companion's emotional state: seven named intensities, each
// held in [0.0, 1.0]. Fixed fields rather than a dynamic map so the
// persistence layer can store one column per emotion.
type State struct {
	Loneliness      float64 `json:"loneliness"`
	Sadness         float64 `json:"sadness"`
	Boredom         float64 `json:"boredom"`
	FearAbandonment float64 `json:"fear_abandonment"`
	Joy             float64 `json:"joy"`
	Love            float64 `json:"love"`
	Trust           float64 `json:"trust"`
}

// Neutral returns the starting state for a new chat session: no negative
// affect, moderate positive affect.
func Neutral() State {
	return State{Joy: 0.5, Love: 0.5, Trust: 0.5}
}

// Clamped returns a copy of the state with every intensity forced into [0, 1].
func (s State) Clamped() State {
	return State{
		Loneliness:      clamp(s.Loneliness),
		Sadness:         clamp(s.Sadness),
		Boredom:         clamp(s.Boredom),
		FearAbandonment: clamp(s.FearAbandonment),
		Joy:             clamp(s.Joy),
		Love:            clamp(s.Love),
		Trust:           clamp(s.Trust),
	}
}

// DiffCount returns the number of fields that differ from other by more
// than eps. Used to avoid counting floating-point noise as change.
func (s State) DiffCount(other State, eps float64) int {
	count := 0
	for _, d := range []float64{
		s.Loneliness - other.Loneliness,
		s.Sadness - other.Sadness,
		s.Boredom - other.Boredom,
		s.FearAbandonment - other.FearAbandonment,
		s.Joy - other.Joy,
		s.Love - other.Love,
		s.Trust - other.Trust,
	} {
		if math.Abs(d) > eps {
			count++
		}
	}
	return count
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}
