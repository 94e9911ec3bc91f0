package domain

import (
	"cmp"
	"math"
	"slices"
)

const (
	// HexagonRadiusMeters is the circumradius of a density-map cell.
	HexagonRadiusMeters = 100

	// HexagonElevationMax and HexagonElevationScale give the extrusion of
	// the densest cell: HexagonElevationMax * HexagonElevationScale.
	HexagonElevationMax   = 1000
	HexagonElevationScale = 4

	metersPerDegree = 111_320.0
)

// HexBin is one cell of the hexagon density map.
type HexBin struct {
	Q         int     `json:"q"`
	R         int     `json:"r"`
	Center    Geo     `json:"center"`
	Vertices  []Geo   `json:"vertices"`
	Count     int     `json:"count"`
	Elevation float64 `json:"elevation"`
}

type axial struct{ q, r int }

// plane is a local equirectangular projection in meters around an origin.
type plane struct {
	origin    Geo
	lonMeters float64
}

func newPlane(origin Geo) plane {
	return plane{
		origin:    origin,
		lonMeters: metersPerDegree * math.Cos(origin.Lat*math.Pi/180),
	}
}

func (p plane) project(g Geo) (x, y float64) {
	return (g.Lon - p.origin.Lon) * p.lonMeters, (g.Lat - p.origin.Lat) * metersPerDegree
}

func (p plane) unproject(x, y float64) Geo {
	return Geo{Lat: p.origin.Lat + y/metersPerDegree, Lon: p.origin.Lon + x/p.lonMeters}
}

// BinHexagons groups records into pointy-top hexagons of the given
// circumradius in meters, projected around origin. Bins are returned densest
// first; equal counts are ordered by grid position.
func BinHexagons(records []Collision, origin Geo, radius float64) []HexBin {
	if len(records) == 0 || radius <= 0 {
		return nil
	}

	p := newPlane(origin)
	counts := make(map[axial]int)
	for _, c := range records {
		x, y := p.project(c.Geo)
		counts[hexAt(x, y, radius)]++
	}

	maxCount := 0
	for _, n := range counts {
		maxCount = max(maxCount, n)
	}

	bins := make([]HexBin, 0, len(counts))
	for cell, n := range counts {
		cx, cy := hexCenter(cell, radius)
		bins = append(bins, HexBin{
			Q:         cell.q,
			R:         cell.r,
			Center:    p.unproject(cx, cy),
			Vertices:  hexRing(p, cx, cy, radius),
			Count:     n,
			Elevation: float64(n) / float64(maxCount) * HexagonElevationMax * HexagonElevationScale,
		})
	}

	slices.SortFunc(bins, func(a, b HexBin) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Q, b.Q); c != 0 {
			return c
		}
		return cmp.Compare(a.R, b.R)
	})
	return bins
}

// hexAt converts plane coordinates to the axial cell containing them.
func hexAt(x, y, size float64) axial {
	q := (math.Sqrt(3)/3*x - y/3) / size
	r := (2.0 / 3 * y) / size
	return cubeRound(q, r)
}

func cubeRound(fq, fr float64) axial {
	fs := -fq - fr
	q, r, s := math.Round(fq), math.Round(fr), math.Round(fs)

	dq, dr, ds := math.Abs(q-fq), math.Abs(r-fr), math.Abs(s-fs)
	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return axial{q: int(q), r: int(r)}
}

func hexCenter(cell axial, size float64) (x, y float64) {
	q, r := float64(cell.q), float64(cell.r)
	return size * math.Sqrt(3) * (q + r/2), size * 1.5 * r
}

// hexRing returns the six vertices plus the closing vertex, as GeoJSON rings require.
func hexRing(p plane, cx, cy, size float64) []Geo {
	ring := make([]Geo, 0, 7)
	for i := range 6 {
		angle := math.Pi / 180 * float64(60*i-30)
		ring = append(ring, p.unproject(cx+size*math.Cos(angle), cy+size*math.Sin(angle)))
	}
	return append(ring, ring[0])
}
