package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// lat/lng pairs given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineRadiusKm(lat1, lng1, lat2, lng2, EarthRadiusKm)
}

// HaversineRadiusKm is HaversineKm on a sphere of the given radius.
func HaversineRadiusKm(lat1, lng1, lat2, lng2, radiusKm float64) float64 {
	phi1 := toRad(lat1)
	phi2 := toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	if a > 1 {
		a = 1
	}
	return 2 * radiusKm * math.Asin(math.Sqrt(a))
}

// Vec3 is a plain 3-component vector. Track points are treated as
// (lon, lat, alt) vectors for the turn-angle check.
type Vec3 [3]float64

func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Norm(v Vec3) float64 {
	return math.Sqrt(Dot(v, v))
}

func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// AngleBetweenDeg returns the angle between v1 and v2 in degrees. The
// second result is false when either vector has zero length, in which case
// the angle is undefined.
func AngleBetweenDeg(v1, v2 Vec3) (float64, bool) {
	n := Norm(v1) * Norm(v2)
	if n == 0 {
		return 0, false
	}
	cos := Dot(v1, v2) / n
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
