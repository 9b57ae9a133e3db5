package snapguess

import "testing"

func TestPhaseTransitions(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseLobby, PhaseSubmission, true},
		{PhaseSubmission, PhasePlaying, true},
		{PhasePlaying, PhaseFinished, true},

		// Restart edge back to submission from any later phase.
		{PhaseSubmission, PhaseSubmission, true},
		{PhasePlaying, PhaseSubmission, true},
		{PhaseFinished, PhaseSubmission, true},

		// Everything else is illegal.
		{PhaseLobby, PhasePlaying, false},
		{PhaseLobby, PhaseFinished, false},
		{PhaseSubmission, PhaseFinished, false},
		{PhasePlaying, PhaseLobby, false},
		{PhaseFinished, PhasePlaying, false},
		{PhaseFinished, PhaseLobby, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
