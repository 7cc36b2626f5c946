package geo

import "fmt"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats the point the way stop descriptions expect it.
func (p Point) String() string {
	return fmt.Sprintf("%.2f, %.2f", p.Lat, p.Lon)
}

// Interpolate returns the point a fraction of the way from a to b in
// coordinate space. Stops are placed along a leg by distance fraction, so
// straight-line interpolation is sufficient; route geometry is not tracked.
func Interpolate(a, b Point, frac float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*frac,
		Lon: a.Lon + (b.Lon-a.Lon)*frac,
	}
}
