package model

import "testing"

func TestConfidenceFromHamming(t *testing.T) {
	cases := []struct {
		distance int
		want     Confidence
		wantOk   bool
	}{
		{0, NearCertain, true},
		{2, NearCertain, true},
		{3, Probable, true},
		{4, Low, false},
	}
	for _, c := range cases {
		got, ok := ConfidenceFromHamming(c.distance)
		if got != c.want || ok != c.wantOk {
			t.Errorf("ConfidenceFromHamming(%d) = (%v, %v), want (%v, %v)", c.distance, got, ok, c.want, c.wantOk)
		}
	}
}

func TestMinConfidence(t *testing.T) {
	if got := MinConfidence(Certain, Probable); got != Probable {
		t.Errorf("MinConfidence(Certain, Probable) = %v, want Probable", got)
	}
	if got := MinConfidence(Low, High); got != Low {
		t.Errorf("MinConfidence(Low, High) = %v, want Low", got)
	}
}

func TestConfidenceOrdering(t *testing.T) {
	order := []Confidence{Low, Probable, High, NearCertain, Certain}
	for i := 1; i < len(order); i++ {
		if !(order[i-1] < order[i]) {
			t.Errorf("expected %v < %v", order[i-1], order[i])
		}
	}
}
