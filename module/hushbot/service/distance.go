package service

import "math"

const (
	earthRadiusMeters = 6371000
	metersPerDegree   = 111000.0
)

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// pointNorthOf returns a point the given distance due north of (lat, lon),
// using a flat metres-per-degree approximation.
func pointNorthOf(lat, lon, meters float64) (float64, float64) {
	return lat + meters/metersPerDegree, lon
}
