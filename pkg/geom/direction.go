package geom

import "math"

// Direction is one of the eight compass directions a handle can face.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [...]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// String returns the lowercase compass name of d.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// ParseDirection maps a compass name to a Direction. Unrecognized names
// default to East, the customary outflow side.
func ParseDirection(s string) Direction {
	for i, name := range directionNames {
		if name == s {
			return Direction(i)
		}
	}
	return East
}

var diag = math.Sqrt2 / 2

var directionVectors = [...]Point{
	North:     {X: 0, Y: -1},
	NorthEast: {X: diag, Y: -diag},
	East:      {X: 1, Y: 0},
	SouthEast: {X: diag, Y: diag},
	South:     {X: 0, Y: 1},
	SouthWest: {X: -diag, Y: diag},
	West:      {X: -1, Y: 0},
	NorthWest: {X: -diag, Y: -diag},
}

// Vector returns the unit vector pointing in direction d.
func (d Direction) Vector() Point {
	if int(d) < len(directionVectors) {
		return directionVectors[d]
	}
	return directionVectors[East]
}

// CurveControls computes the two control points of the cubic Bézier used to
// preview a connection from src to dst. Each control point extends from its
// endpoint along that endpoint's handle direction by min(distance*0.4, cap),
// keeping the curve anchored to the emitting side regardless of drag
// distance. At very short distances the curve flattens toward a straight
// line.
func CurveControls(src Point, srcDir Direction, dst Point, dstDir Direction, capLen float64) (c1, c2 Point) {
	ext := src.Dist(dst) * 0.4
	if capLen > 0 && ext > capLen {
		ext = capLen
	}
	c1 = src.Add(srcDir.Vector().Scale(ext))
	c2 = dst.Add(dstDir.Vector().Scale(ext))
	return c1, c2
}
