package snapguess

import (
	"math"
	"testing"
)

var (
	nyc    = Location{Lat: 40.7128, Lng: -74.0060}
	london = Location{Lat: 51.5074, Lng: -0.1278}
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	points := []Location{nyc, london, {Lat: 0, Lng: 0}, {Lat: -33.8688, Lng: 151.2093}}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	ab := Distance(nyc, london)
	ba := Distance(london, nyc)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance is not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceNYCToLondon(t *testing.T) {
	d := Distance(nyc, london)
	// Known great-circle distance is roughly 5570 km.
	if d < 5550 || d > 5590 {
		t.Errorf("Distance(nyc, london) = %v, want ~5570", d)
	}
}

func TestLocationScorePerfectGuess(t *testing.T) {
	if got := LocationScore(0); got != 5000 {
		t.Errorf("LocationScore(0) = %d, want 5000", got)
	}
}

func TestLocationScoreClampsAtMaxDistance(t *testing.T) {
	for _, d := range []float64{5000, 5000.1, 6000, 20000} {
		if got := LocationScore(d); got != 0 {
			t.Errorf("LocationScore(%v) = %d, want 0", d, got)
		}
	}
}

func TestLocationScoreLinearDecay(t *testing.T) {
	cases := []struct {
		distance float64
		want     int
	}{
		{1, 4999},
		{100, 4900},
		{2500, 2500},
		{4999, 1},
		{4999.6, 0},
	}
	for _, c := range cases {
		if got := LocationScore(c.distance); got != c.want {
			t.Errorf("LocationScore(%v) = %d, want %d", c.distance, got, c.want)
		}
	}
}

func TestLocationScoreMonotone(t *testing.T) {
	prev := LocationScore(0)
	for d := 1.0; d <= 6000; d += 7 {
		cur := LocationScore(d)
		if cur > prev {
			t.Fatalf("score increased from %d to %d at distance %v", prev, cur, d)
		}
		prev = cur
	}
}

func TestOwnerBonusIsAlwaysZero(t *testing.T) {
	if got := OwnerBonus("a", "a"); got != 0 {
		t.Errorf("OwnerBonus(a, a) = %d, want 0", got)
	}
	if got := OwnerBonus("a", "b"); got != 0 {
		t.Errorf("OwnerBonus(a, b) = %d, want 0", got)
	}
}

func TestScoreGuessWorkedExample(t *testing.T) {
	// B guesses near London while the photo is in NYC: score 0.
	d, score := ScoreGuess(Location{Lat: 51.5, Lng: -0.12}, nyc)
	if d < 5000 {
		t.Errorf("distance = %v, want >= 5000", d)
	}
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}

	// C guesses ~1 km from the true spot: score ~4999.
	d, score = ScoreGuess(Location{Lat: 40.70, Lng: -74.00}, nyc)
	if d > 5 {
		t.Errorf("distance = %v, want a few km", d)
	}
	if score < 4995 || score > 5000 {
		t.Errorf("score = %d, want ~4999", score)
	}
}
