package box

import "strconv"

// SizeConstraint is one dimension of an available space: a definite pixel
// amount or indefinite ("size to content").
type SizeConstraint struct {
	definite bool
	value    float64
}

// Definite returns a definite constraint of v pixels.
func Definite(v float64) SizeConstraint {
	if v < 0 {
		v = 0
	}
	return SizeConstraint{definite: true, value: v}
}

// Indefinite returns the indefinite constraint.
func Indefinite() SizeConstraint { return SizeConstraint{} }

// IsDefinite reports whether the constraint carries a definite value.
func (c SizeConstraint) IsDefinite() bool { return c.definite }

// Value returns the definite value, or 0 if indefinite.
func (c SizeConstraint) Value() float64 { return c.value }

// Get returns the value and whether it is definite.
func (c SizeConstraint) Get() (float64, bool) { return c.value, c.definite }

func (c SizeConstraint) String() string {
	if !c.definite {
		return "indefinite"
	}
	return strconv.FormatFloat(c.value, 'g', -1, 64)
}

// AvailableSpace is the top-down input to every formatter call. It is
// never mutated, only narrowed when recursing into children.
type AvailableSpace struct {
	Width  SizeConstraint
	Height SizeConstraint
}

// DefiniteSpace returns an AvailableSpace definite in both dimensions.
func DefiniteSpace(w, h float64) AvailableSpace {
	return AvailableSpace{Width: Definite(w), Height: Definite(h)}
}

// IndefiniteSpace returns an AvailableSpace indefinite in both dimensions.
func IndefiniteSpace() AvailableSpace {
	return AvailableSpace{Width: Indefinite(), Height: Indefinite()}
}

// WithWidth returns a copy narrowed to a definite width.
func (a AvailableSpace) WithWidth(w float64) AvailableSpace {
	a.Width = Definite(w)
	return a
}

// WithHeight returns a copy narrowed to a definite height.
func (a AvailableSpace) WithHeight(h float64) AvailableSpace {
	a.Height = Definite(h)
	return a
}

func (a AvailableSpace) String() string {
	return a.Width.String() + "x" + a.Height.String()
}

// Intrinsic is the size triple reported by an IntrinsicSizer for a leaf
// box: preferred (max-content), minimum (min-content) and maximum useful
// size along each axis.
type Intrinsic struct {
	PreferredWidth  float64
	PreferredHeight float64
	MinWidth        float64
	MinHeight       float64
	MaxWidth        float64
	MaxHeight       float64
}

// IntrinsicSizer supplies content sizes for leaf boxes (text runs,
// images). The engine treats it as an opaque oracle.
type IntrinsicSizer interface {
	Measure(n *Node, space AvailableSpace) Intrinsic
}

// ZeroSizer reports zero sizes for every leaf; the default when no sizer
// is configured.
type ZeroSizer struct{}

// Measure implements IntrinsicSizer.
func (ZeroSizer) Measure(*Node, AvailableSpace) Intrinsic { return Intrinsic{} }
