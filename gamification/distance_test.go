package gamification

import (
	"math"
	"testing"
)

func TestDistanceMetersIdentity(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{43.2580, 76.9438},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, c := range coords {
		if d := DistanceMeters(c[0], c[1], c[0], c[1]); d != 0 {
			t.Errorf("distance(%v, %v) to itself = %v, want 0", c[0], c[1], d)
		}
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	// Panfilov Park and the Medeu rink in Almaty.
	d1 := DistanceMeters(43.2580, 76.9438, 43.1560, 77.0586)
	d2 := DistanceMeters(43.1560, 77.0586, 43.2580, 76.9438)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceMetersKnownDistance(t *testing.T) {
	// Roughly 14.7 km across the city.
	d := DistanceMeters(43.2580, 76.9438, 43.1560, 77.0586)
	if d < 14000 || d > 15500 {
		t.Errorf("cross-city distance = %v m, want ~14700 m", d)
	}
}

func TestDistanceMetersProximityScale(t *testing.T) {
	// 0.0018 degrees of latitude is about 200 m, the proximity radius.
	d := DistanceMeters(43.2580, 76.9438, 43.2598, 76.9438)
	if d < 195 || d > 205 {
		t.Errorf("0.0018 deg latitude = %v m, want ~200 m", d)
	}
}
