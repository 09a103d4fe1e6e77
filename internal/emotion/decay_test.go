package emotion

import (
	"testing"
)

func TestComputeDecayBelowThreshold(t *testing.T) {
	in := State{Loneliness: 0.3, Sadness: 0.2, Joy: 0.8, Love: 0.6, Trust: 0.5}

	for _, hours := range []float64{0, 0.5, 1.0, 1.9, 1.999} {
		result := ComputeDecay(in, hours, 0.5)
		if result.State != in {
			t.Errorf("hours=%v: state changed below threshold: %+v", hours, result.State)
		}
		if result.ChangedFields != 0 {
			t.Errorf("hours=%v: ChangedFields = %d, want 0", hours, result.ChangedFields)
		}
		if result.TriggersProactive {
			t.Errorf("hours=%v: unexpected proactive trigger", hours)
		}
	}
}

func TestComputeDecayClamping(t *testing.T) {
	in := State{Loneliness: 0.9, Sadness: 0.9, Boredom: 0.9, FearAbandonment: 0.9, Joy: 0.05, Love: 0.05, Trust: 0.05}

	result := ComputeDecay(in, 10000, 0)
	s := result.State
	for name, v := range map[string]float64{
		"loneliness": s.Loneliness, "sadness": s.Sadness, "boredom": s.Boredom,
		"fear": s.FearAbandonment, "joy": s.Joy, "love": s.Love, "trust": s.Trust,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0, 1] at extreme hours", name, v)
		}
	}
	if s.Loneliness != 1.0 {
		t.Errorf("loneliness = %v, want clamped to 1.0", s.Loneliness)
	}
	if s.Joy != 0.0 {
		t.Errorf("joy = %v, want floored at 0.0", s.Joy)
	}
}

func TestComputeDecayMonotonic(t *testing.T) {
	in := State{Loneliness: 0.2, Sadness: 0.1, Boredom: 0.3, FearAbandonment: 0.1, Joy: 0.7, Love: 0.8, Trust: 0.6}

	prev := ComputeDecay(in, 2, 0.5).State
	for hours := 4.0; hours <= 512; hours *= 2 {
		cur := ComputeDecay(in, hours, 0.5).State
		if cur.Loneliness < prev.Loneliness || cur.Sadness < prev.Sadness ||
			cur.Boredom < prev.Boredom || cur.FearAbandonment < prev.FearAbandonment {
			t.Errorf("hours=%v: a negative emotion decreased", hours)
		}
		if cur.Joy > prev.Joy || cur.Love > prev.Love || cur.Trust > prev.Trust {
			t.Errorf("hours=%v: a positive emotion increased", hours)
		}
		prev = cur
	}
}

func TestComputeDecayDepthSlowsDecay(t *testing.T) {
	in := Neutral()
	shallow := ComputeDecay(in, 24, 0.0).State
	deep := ComputeDecay(in, 24, 1.0).State

	if deep.Loneliness >= shallow.Loneliness {
		t.Errorf("deep relationship loneliness %v >= shallow %v", deep.Loneliness, shallow.Loneliness)
	}
	if deep.Joy <= shallow.Joy {
		t.Errorf("deep relationship joy %v <= shallow %v", deep.Joy, shallow.Joy)
	}
}

func TestProactiveTriggerLonelinessBoundary(t *testing.T) {
	// Above the 0.7 threshold fires even at minimal decay.
	high := ComputeDecay(State{Loneliness: 0.75}, 2, 1.0)
	if !high.TriggersProactive {
		t.Error("loneliness 0.75 should trigger")
	}

	// Just below stays quiet when nothing else is elevated. Deep
	// relationship and short absence keep the result under 0.7.
	low := ComputeDecay(State{Loneliness: 0.65}, 2.5, 1.0)
	if low.State.Loneliness >= 0.7 {
		t.Fatalf("setup: loneliness decayed to %v, expected < 0.7", low.State.Loneliness)
	}
	if low.TriggersProactive {
		t.Error("loneliness 0.65 should not trigger")
	}
}

func TestProactiveTriggerSadnessCombo(t *testing.T) {
	result := ComputeDecay(State{Loneliness: 0.62, Sadness: 0.62}, 2.5, 1.0)
	if !result.TriggersProactive {
		t.Error("sadness and loneliness both >= 0.6 should trigger")
	}
}

func TestProactiveTriggerFearClause(t *testing.T) {
	// 50 hours inactive with fear at 0.65: fires via the 48-hour clause.
	result := ComputeDecay(State{FearAbandonment: 0.65}, 50, 0.5)
	if !result.TriggersProactive {
		t.Error("fear 0.65 at 50h should trigger via the 48h clause")
	}

	// Same state well under 48 hours: no other condition holds.
	result = ComputeDecay(State{FearAbandonment: 0.65}, 10, 0.5)
	if result.TriggersProactive {
		t.Error("fear 0.65 at 10h should not trigger")
	}
}

func TestComputeDecayScenario3Hours(t *testing.T) {
	in := State{Loneliness: 0.5, Joy: 0.5, Love: 0.5, Trust: 0.5}

	first := ComputeDecay(in, 3, 0.5)
	if first.State.Loneliness <= in.Loneliness {
		t.Errorf("loneliness did not increase: %v", first.State.Loneliness)
	}
	if first.State.Loneliness >= 0.7 {
		t.Errorf("loneliness = %v, expected bounded below 0.7 after 3h", first.State.Loneliness)
	}
	if first.ChangedFields == 0 {
		t.Error("expected changed fields after 3h")
	}
	if first.TriggersProactive {
		t.Error("3h of inactivity should not trigger a proactive message")
	}

	// Deterministic: same inputs, same outputs.
	second := ComputeDecay(in, 3, 0.5)
	if first.State != second.State {
		t.Errorf("not deterministic: %+v vs %+v", first.State, second.State)
	}
}

func TestDiffCountIgnoresNoise(t *testing.T) {
	a := Neutral()
	b := a
	b.Joy += ChangeEpsilon / 2

	if n := a.DiffCount(b, ChangeEpsilon); n != 0 {
		t.Errorf("DiffCount = %d for sub-epsilon delta, want 0", n)
	}

	b.Joy = a.Joy + 0.1
	if n := a.DiffCount(b, ChangeEpsilon); n != 1 {
		t.Errorf("DiffCount = %d, want 1", n)
	}
}
