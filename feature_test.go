package stipple

import (
	"strings"
	"testing"
)

func TestLoadFeatureFile(t *testing.T) {
	data := []byte(`{"features": [
		{"id": "001234", "x": 1.5, "y": -2, "z": 0.25},
		{"id": "005678", "x": 0, "y": 0, "z": 0}
	]}`)
	points, err := LoadFeatureFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].ID != "001234" || points[0].X != 1.5 || points[0].Y != -2 || points[0].Z != 0.25 {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestLoadFeatureFileBareArray(t *testing.T) {
	data := []byte(`[{"id": "ab", "x": 1, "y": 2, "z": 3}]`)
	points, err := LoadFeatureFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 || points[0].ID != "ab" {
		t.Errorf("points = %+v", points)
	}
}

func TestLoadFeatureFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"malformed json", `{"features": [`, "failed to parse"},
		{"empty list", `{"features": []}`, "no points"},
		{"missing key", `{"points": []}`, "no points"},
		{"duplicate id", `{"features": [{"id":"aa"},{"id":"aa"}]}`, "duplicate identifier"},
		{"short id", `{"features": [{"id":"a"}]}`, "malformed identifier"},
		{"empty id", `{"features": [{"id":""}]}`, "malformed identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFeatureFile([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePointsMultibyte(t *testing.T) {
	// Two runes is enough even when they are multibyte.
	if err := ValidatePoints([]RawPoint{{ID: "日本"}}); err != nil {
		t.Errorf("two-rune multibyte id rejected: %v", err)
	}
}
