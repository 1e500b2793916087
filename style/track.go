package style

// BreadthKind discriminates a grid track breadth.
type BreadthKind int

const (
	BreadthAuto BreadthKind = iota
	BreadthPx
	BreadthPercent
	BreadthFr
)

// Breadth is one bound of a grid track size: auto, a definite length, a
// percentage of the container, or a flexible fr share.
type Breadth struct {
	Kind  BreadthKind
	Value float64
}

// PxBreadth returns a definite pixel breadth.
func PxBreadth(v float64) Breadth { return Breadth{Kind: BreadthPx, Value: v} }

// PctBreadth returns a percentage breadth.
func PctBreadth(v float64) Breadth { return Breadth{Kind: BreadthPercent, Value: v} }

// Fr returns a flexible breadth of the given fr share.
func Fr(v float64) Breadth { return Breadth{Kind: BreadthFr, Value: v} }

// AutoBreadth returns the auto breadth.
func AutoBreadth() Breadth { return Breadth{Kind: BreadthAuto} }

// IsFr reports whether the breadth is a fr share.
func (b Breadth) IsFr() bool { return b.Kind == BreadthFr }

// TrackSize is a grid track sizing function. Plain tracks carry the same
// breadth in Min and Max; minmax() tracks carry distinct bounds.
type TrackSize struct {
	Min Breadth
	Max Breadth
}

// FixedTrack returns a definite pixel track.
func FixedTrack(px float64) TrackSize {
	return TrackSize{Min: PxBreadth(px), Max: PxBreadth(px)}
}

// PercentTrack returns a percentage track.
func PercentTrack(pct float64) TrackSize {
	return TrackSize{Min: PctBreadth(pct), Max: PctBreadth(pct)}
}

// FrTrack returns a flexible track. Its minimum is auto per the grid
// sizing rules, so fr tracks can absorb clamping redistribution.
func FrTrack(fr float64) TrackSize {
	return TrackSize{Min: AutoBreadth(), Max: Fr(fr)}
}

// AutoTrack returns an auto-sized track.
func AutoTrack() TrackSize {
	return TrackSize{Min: AutoBreadth(), Max: AutoBreadth()}
}

// MinMax returns a minmax() track.
func MinMax(min, max Breadth) TrackSize {
	return TrackSize{Min: min, Max: max}
}

// IsFlexible reports whether the track's max bound is a fr share.
func (t TrackSize) IsFlexible() bool { return t.Max.IsFr() }

// GridLineKind discriminates a grid line placement value.
type GridLineKind int

const (
	GridLineAuto GridLineKind = iota
	GridLineIndex
	GridLineSpan
)

// GridLine is one side of a grid item placement: auto, a 1-based line
// number, or a span count.
type GridLine struct {
	Kind  GridLineKind
	Value int
}

// LineIndex returns a placement at the given 1-based grid line.
func LineIndex(n int) GridLine { return GridLine{Kind: GridLineIndex, Value: n} }

// Span returns a placement spanning n tracks.
func Span(n int) GridLine { return GridLine{Kind: GridLineSpan, Value: n} }

// AutoLine returns the auto placement value.
func AutoLine() GridLine { return GridLine{Kind: GridLineAuto} }

// GridPlacement is a grid item's start/end placement on one axis.
type GridPlacement struct {
	Start GridLine
	End   GridLine
}

// AutoPlacement returns the initial (fully automatic) placement.
func AutoPlacement() GridPlacement {
	return GridPlacement{Start: AutoLine(), End: AutoLine()}
}

// IsAuto reports whether both sides are auto (the item is auto-placed).
func (p GridPlacement) IsAuto() bool {
	return p.Start.Kind == GridLineAuto && p.End.Kind == GridLineAuto
}

// IsDefinite reports whether the placement pins a start line.
func (p GridPlacement) IsDefinite() bool {
	return p.Start.Kind == GridLineIndex || p.End.Kind == GridLineIndex
}

// SpanCount returns the number of tracks the placement covers.
func (p GridPlacement) SpanCount() int {
	switch {
	case p.Start.Kind == GridLineIndex && p.End.Kind == GridLineIndex:
		n := p.End.Value - p.Start.Value
		if n < 1 {
			n = 1
		}
		return n
	case p.Start.Kind == GridLineSpan:
		if p.Start.Value > 0 {
			return p.Start.Value
		}
		return 1
	case p.End.Kind == GridLineSpan:
		if p.End.Value > 0 {
			return p.End.Value
		}
		return 1
	default:
		return 1
	}
}
