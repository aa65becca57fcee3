package builder

import (
	"errors"
	"fmt"
	"math"

	"roadnet/pkg/datastructure"
)

var (
	ErrUnknownCategory = errors.New("road category not in speed table")
)

// SpeedTable maps a road category to a speed, in the same distance unit per
// time unit as the edge lengths so that length/speed yields a travel time.
type SpeedTable map[string]float64

// DefaultSpeedTable covers the usual road classes, meter lengths and
// meter/second speeds.
func DefaultSpeedTable() SpeedTable {
	return SpeedTable{
		"motorway":       26.4,
		"trunk":          23.6,
		"primary":        20.8,
		"secondary":      18.1,
		"tertiary":       13.9,
		"unclassified":   13.9,
		"residential":    8.3,
		"motorway_link":  12.5,
		"trunk_link":     11.1,
		"primary_link":   8.3,
		"secondary_link": 6.9,
		"tertiary_link":  5.6,
		"service":        5.6,
		"living_street":  2.8,
	}
}

// ResolveWeights derives the travel-time weight of every edge from its road
// category: Weight = Dist / speed. The primary Dist weight is preserved
// unchanged. A category missing from the table rejects the whole batch; no
// partially resolved edge set is returned.
func ResolveWeights(edges []datastructure.Edge, speeds SpeedTable) ([]datastructure.Edge, error) {
	resolved := make([]datastructure.Edge, len(edges))
	for i, e := range edges {
		speed, ok := speeds[e.RoadClass]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, e.RoadClass)
		}
		if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
			return nil, fmt.Errorf("%w: category %q has invalid speed %f", ErrSchema, e.RoadClass, speed)
		}
		e.Weight = e.Dist / speed
		resolved[i] = e
	}
	return resolved, nil
}
