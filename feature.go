package stipple

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// groupSuffixLen is the number of trailing runes stripped from a feature ID
// to form its thumbnail group key.
const groupSuffixLen = 2

// RawPoint is one entry of a feature file: a stable identifier and an
// unnormalized position.
type RawPoint struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Feature is a cloud point after normalization. Immutable after load;
// Position is expressed in the cloud's local (normalized) frame.
type Feature struct {
	ID       string
	Position r3.Vec
}

// --- JSON structure types ---

type jsonFeatureFile struct {
	Features []RawPoint `json:"features"`
}

// LoadFeatureFile parses a feature file and validates its entries.
// The file is a JSON object with a "features" array of {id, x, y, z} records.
// A bare top-level array is also accepted.
//
// Errors here are fatal by contract: a malformed or empty file, a duplicate
// identifier, or an identifier too short to form a group key all abort
// initialization rather than producing a partially loaded cloud.
func LoadFeatureFile(jsonData []byte) ([]RawPoint, error) {
	var file jsonFeatureFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		// Retry as a bare array before giving up.
		if arrErr := json.Unmarshal(jsonData, &file.Features); arrErr != nil {
			return nil, fmt.Errorf("stipple: failed to parse feature file: %w", err)
		}
	}
	if err := ValidatePoints(file.Features); err != nil {
		return nil, err
	}
	return file.Features, nil
}

// ValidatePoints checks the collection invariants of a raw point set:
// non-empty, unique identifiers, and identifiers long enough to strip the
// group-key suffix from.
func ValidatePoints(points []RawPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("stipple: feature file has no points")
	}
	seen := make(map[string]struct{}, len(points))
	for i, p := range points {
		if len([]rune(p.ID)) < groupSuffixLen {
			return fmt.Errorf("stipple: point %d has malformed identifier %q (shorter than %d characters)", i, p.ID, groupSuffixLen)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("stipple: duplicate identifier %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
