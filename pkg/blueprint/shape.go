package blueprint

import (
	"math"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// ShapeKind names the geometry of a node.
type ShapeKind string

// Supported shape kinds.
const (
	ShapeRectangle ShapeKind = "RECTANGLE"
	ShapeCircle    ShapeKind = "CIRCLE"
	ShapeLine      ShapeKind = "LINE"
	ShapePoint     ShapeKind = "POINT"
)

// Shape is the geometry of a plot node in meters.
//
// Rectangles use Width (X) and Length (Y). Lines (belt transects) use Length
// along X and Width across it. Circles and points use Radius.
type Shape struct {
	Kind   ShapeKind `json:"kind" toml:"kind" bson:"kind"`
	Width  float64   `json:"width,omitempty" toml:"width" bson:"width,omitempty"`
	Length float64   `json:"length,omitempty" toml:"length" bson:"length,omitempty"`
	Radius float64   `json:"radius,omitempty" toml:"radius" bson:"radius,omitempty"`
}

// Rect returns a rectangle shape of the given width (X) and length (Y).
func Rect(width, length float64) Shape {
	return Shape{Kind: ShapeRectangle, Width: width, Length: length}
}

// Circle returns a circle shape of the given radius.
func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// Line returns a belt-transect shape of the given length (X) and width (Y).
func Line(length, width float64) Shape {
	return Shape{Kind: ShapeLine, Length: length, Width: width}
}

// Point returns a point shape with the given search radius.
func Point(radius float64) Shape {
	return Shape{Kind: ShapePoint, Radius: radius}
}

// IsZero reports whether no shape was specified.
func (s Shape) IsZero() bool { return s == Shape{} }

// Bounds returns the bounding box of the shape as (width along X, height
// along Y).
//
// There is no default for unknown kinds: a malformed shape returns an
// INVALID_SHAPE error rather than zero dimensions, since zero dimensions
// would silently corrupt all descendant geometry.
func (s Shape) Bounds() (w, h float64, err error) {
	switch s.Kind {
	case ShapeRectangle:
		w, h = s.Width, s.Length
	case ShapeLine:
		w, h = s.Length, s.Width
	case ShapeCircle, ShapePoint:
		w, h = 2*s.Radius, 2*s.Radius
	default:
		return 0, 0, perrors.New(perrors.ErrCodeInvalidShape, "unsupported shape kind %q", s.Kind)
	}
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, 0, perrors.New(perrors.ErrCodeInvalidShape, "%s shape must have positive finite dimensions (got %gx%g)", s.Kind, w, h)
	}
	return w, h, nil
}

// Area returns the area of the shape in square meters.
func (s Shape) Area() (float64, error) {
	w, h, err := s.Bounds()
	if err != nil {
		return 0, err
	}
	switch s.Kind {
	case ShapeCircle, ShapePoint:
		return math.Pi * s.Radius * s.Radius, nil
	default:
		return w * h, nil
	}
}
