package emotion

import "math"

// Decay algorithm:
//   - Nothing happens below 2 hours of inactivity.
//   - Past the threshold, change follows a saturating exponential curve
//     (24h time constant), so short absences barely register and very long
//     ones converge instead of running away.
//   - Negative emotions rise, positive emotions fall, each at its own rate.
//     Love erodes slowest.
//   - relationship_depth in [0, 1] dampens the whole curve: deeper
//     relationships decay more slowly.
//   - All outputs are clamped to [0, 1].

const (
	// MinInactiveHours is the inactivity threshold below which no decay applies.
	MinInactiveHours = 2.0

	// ChangeEpsilon is the minimum per-field delta that counts as a change.
	ChangeEpsilon = 1e-3

	// timeConstantHours controls how fast the decay curve saturates.
	timeConstantHours = 24.0
)

// Per-emotion magnitude at full saturation.
const (
	riseLoneliness = 0.55
	riseSadness    = 0.45
	riseBoredom    = 0.50
	riseFear       = 0.35
	fallJoy        = 0.40
	fallLove       = 0.25
	fallTrust      = 0.30
)

// Result is the outcome of a decay computation.
type Result struct {
	State             State
	ChangedFields     int
	TriggersProactive bool
}

// ComputeDecay applies inactivity decay to a state. Pure and deterministic:
// the same (state, hoursInactive, relationshipDepth) always yields the same
// result. Below MinInactiveHours the input is returned unchanged with
// ChangedFields 0 and no trigger.
func ComputeDecay(s State, hoursInactive, relationshipDepth float64) Result {
	if hoursInactive < MinInactiveHours {
		return Result{State: s}
	}

	depth := math.Min(math.Max(relationshipDepth, 0.0), 1.0)
	progress := 1.0 - math.Exp(-(hoursInactive-MinInactiveHours)/timeConstantHours)
	scale := progress / (1.0 + depth)

	out := State{
		Loneliness:      s.Loneliness + riseLoneliness*scale,
		Sadness:         s.Sadness + riseSadness*scale,
		Boredom:         s.Boredom + riseBoredom*scale,
		FearAbandonment: s.FearAbandonment + riseFear*scale,
		Joy:             s.Joy - fallJoy*scale,
		Love:            s.Love - fallLove*scale,
		Trust:           s.Trust - fallTrust*scale,
	}.Clamped()

	return Result{
		State:             out,
		ChangedFields:     out.DiffCount(s, ChangeEpsilon),
		TriggersProactive: triggersProactive(out, hoursInactive),
	}
}

// triggersProactive reports whether the state crosses a proactive-message
// threshold: acute loneliness, combined sadness and loneliness, or sustained
// fear of abandonment after two days of silence.
func triggersProactive(s State, hoursInactive float64) bool {
	if s.Loneliness >= 0.7 {
		return true
	}
	if s.Sadness >= 0.6 && s.Loneliness >= 0.6 {
		return true
	}
	if s.FearAbandonment >= 0.6 && hoursInactive >= 48 {
		return true
	}
	return false
}
