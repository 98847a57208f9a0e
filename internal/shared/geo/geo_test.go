package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// London (51.5074, -0.1278) to Paris (48.8566, 2.3522) ~ 340-345 km
	d := HaversineKm(51.5074, -0.1278, 48.8566, 2.3522)
	if d < 330 || d > 350 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmSamePoint(t *testing.T) {
	if d := HaversineKm(51.5, -0.12, 51.5, -0.12); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}
