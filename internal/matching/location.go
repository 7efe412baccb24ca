package matching

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0088

type locationResult struct {
	score      int
	distanceKm *float64
}

func validCoordinates(c *Coordinates) bool {
	return c != nil &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

func validateLocation(l Location) error {
	if l.Coordinates != nil && !validCoordinates(l.Coordinates) {
		return fmt.Errorf("coordinates out of range: %v,%v", l.Coordinates.Lat, l.Coordinates.Lon)
	}
	return nil
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// distanceScore decays linearly from 100 at 0 km to 0 at the cutoff.
func distanceScore(km, cutoffKm float64) int {
	if km >= cutoffKm {
		return 0
	}
	return clampScore(int(math.Round(100 * (1 - km/cutoffKm))))
}

func regionScore(a, b string, cfg ScoringConfig) int {
	ca, cb := canonicalTag(a), canonicalTag(b)
	if ca == cb {
		return 100
	}
	if score, ok := cfg.RegionProximity[RegionPair(ca, cb)]; ok {
		return clampScore(score)
	}
	return clampScore(cfg.RegionFallbackScore)
}

// scoreLocation prefers coordinates when both sides have them, then regions.
// Without a comparable location the neutral score applies.
func scoreLocation(requester, candidate Location, cfg ScoringConfig) locationResult {
	if requester.IsZero() {
		return locationResult{score: NeutralScore}
	}

	if requester.Coordinates != nil && validCoordinates(candidate.Coordinates) {
		km := HaversineKm(*requester.Coordinates, *candidate.Coordinates)
		return locationResult{score: distanceScore(km, cfg.LocationCutoffKm), distanceKm: &km}
	}

	if canonicalTag(requester.Region) != "" && canonicalTag(candidate.Region) != "" {
		return locationResult{score: regionScore(requester.Region, candidate.Region, cfg)}
	}

	return locationResult{score: NeutralScore}
}
