// Package style defines the resolved computed-style snapshot the layout
// engine consumes. Values here are already cascaded and unit-resolved;
// the engine never writes back to a Style.
package style

// LengthKind discriminates the Length tagged value.
type LengthKind int

const (
	LengthAuto LengthKind = iota
	LengthPx
	LengthPercent
)

// Length is a size or offset value: auto, a definite pixel length, or a
// percentage of the containing block.
type Length struct {
	Kind  LengthKind
	Value float64
}

// Px returns a definite pixel length.
func Px(v float64) Length { return Length{Kind: LengthPx, Value: v} }

// Pct returns a percentage length.
func Pct(v float64) Length { return Length{Kind: LengthPercent, Value: v} }

// Auto returns the auto length.
func Auto() Length { return Length{Kind: LengthAuto} }

// IsAuto reports whether the length is auto.
func (l Length) IsAuto() bool { return l.Kind == LengthAuto }

// Resolve resolves the length against a percentage base. An indefinite
// base makes percentages behave as auto, per the box-model rules.
func (l Length) Resolve(base float64, baseDefinite bool) (float64, bool) {
	switch l.Kind {
	case LengthPx:
		return l.Value, true
	case LengthPercent:
		if baseDefinite {
			return base * l.Value / 100, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// ResolveOrZero is Resolve with auto collapsing to zero (margins, padding).
func (l Length) ResolveOrZero(base float64, baseDefinite bool) float64 {
	v, ok := l.Resolve(base, baseDefinite)
	if !ok {
		return 0
	}
	return v
}

// Edges holds four-sided length values (margin, padding, border, inset).
type Edges struct {
	Top, Right, Bottom, Left Length
}

// UniformEdges returns Edges with the same definite pixel value on all sides.
func UniformEdges(v float64) Edges {
	return Edges{Top: Px(v), Right: Px(v), Bottom: Px(v), Left: Px(v)}
}

// AutoEdges returns Edges with auto on all sides (initial inset value).
func AutoEdges() Edges {
	return Edges{Top: Auto(), Right: Auto(), Bottom: Auto(), Left: Auto()}
}

// Display represents the display property values the engine understands.
type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayFlex
	DisplayGrid
	DisplayNone
)

// Position represents the position property values.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// FlexDirection represents the flex-direction property values.
type FlexDirection int

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionRowReverse
	FlexDirectionColumn
	FlexDirectionColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool {
	return d == FlexDirectionRow || d == FlexDirectionRowReverse
}

// IsReverse reports whether main-axis placement runs end-to-start.
func (d FlexDirection) IsReverse() bool {
	return d == FlexDirectionRowReverse || d == FlexDirectionColumnReverse
}

// FlexWrap represents the flex-wrap property values.
type FlexWrap int

const (
	FlexWrapNowrap FlexWrap = iota
	FlexWrapWrap
	FlexWrapWrapReverse
)

// JustifyContent represents the justify-content property values.
type JustifyContent int

const (
	JustifyFlexStart JustifyContent = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignItems represents the align-items property values.
type AlignItems int

const (
	AlignItemsStretch AlignItems = iota
	AlignItemsFlexStart
	AlignItemsFlexEnd
	AlignItemsCenter
	AlignItemsBaseline
)

// AlignSelf represents the align-self property values.
type AlignSelf int

const (
	AlignSelfAuto AlignSelf = iota
	AlignSelfStretch
	AlignSelfFlexStart
	AlignSelfFlexEnd
	AlignSelfCenter
	AlignSelfBaseline
)

// AlignContent represents the align-content property values.
type AlignContent int

const (
	AlignContentStretch AlignContent = iota
	AlignContentFlexStart
	AlignContentFlexEnd
	AlignContentCenter
	AlignContentSpaceBetween
	AlignContentSpaceAround
)

// ItemAlign represents justify-items / justify-self values for grid items.
type ItemAlign int

const (
	ItemAlignAuto ItemAlign = iota
	ItemAlignStretch
	ItemAlignStart
	ItemAlignEnd
	ItemAlignCenter
)

// ZIndex is the z-index property: auto or an integer level.
type ZIndex struct {
	Auto  bool
	Value int
}

// AutoZIndex returns the initial z-index value.
func AutoZIndex() ZIndex { return ZIndex{Auto: true} }

// Style is one box's computed style snapshot. The zero value is not
// meaningful; use New for initial values.
type Style struct {
	Display  Display
	Position Position

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length

	Margin  Edges
	Padding Edges
	Border  Edges
	Inset   Edges

	// Flex container properties.
	FlexDirection  FlexDirection
	FlexWrap       FlexWrap
	JustifyContent JustifyContent
	AlignItems     AlignItems
	AlignContent   AlignContent
	RowGap         float64
	ColumnGap      float64

	// Flex item properties.
	FlexGrow   float64
	FlexShrink float64
	FlexBasis  Length
	Order      int
	AlignSelf  AlignSelf

	// Grid container properties.
	GridTemplateColumns []TrackSize
	GridTemplateRows    []TrackSize
	GridAutoColumns     TrackSize
	GridAutoRows        TrackSize
	GridAutoFlowColumn  bool
	GridAutoFlowDense   bool
	JustifyItems        ItemAlign

	// Grid item properties.
	GridColumn  GridPlacement
	GridRow     GridPlacement
	JustifySelf ItemAlign

	// Paint-order properties.
	ZIndex       ZIndex
	Opacity      float64
	HasTransform bool
	HasFilter    bool
	Isolate      bool

	// Marks a scroll container (overflow other than visible); used as the
	// containing block for sticky descendants.
	ScrollContainer bool

	FontSize float64
}

// New returns a Style holding every property's initial value.
func New() *Style {
	return &Style{
		Display:         DisplayBlock,
		Position:        PositionStatic,
		Width:           Auto(),
		Height:          Auto(),
		MinWidth:        Auto(),
		MinHeight:       Auto(),
		MaxWidth:        Auto(),
		MaxHeight:       Auto(),
		Margin:          UniformEdges(0),
		Padding:         UniformEdges(0),
		Border:          UniformEdges(0),
		Inset:           AutoEdges(),
		FlexDirection:   FlexDirectionRow,
		FlexWrap:        FlexWrapNowrap,
		JustifyContent:  JustifyFlexStart,
		AlignItems:      AlignItemsStretch,
		AlignContent:    AlignContentStretch,
		FlexGrow:        0,
		FlexShrink:      1,
		FlexBasis:       Auto(),
		AlignSelf:       AlignSelfAuto,
		GridAutoColumns: AutoTrack(),
		GridAutoRows:    AutoTrack(),
		JustifyItems:    ItemAlignStretch,
		JustifySelf:     ItemAlignAuto,
		GridColumn:      AutoPlacement(),
		GridRow:         AutoPlacement(),
		ZIndex:          AutoZIndex(),
		Opacity:         1,
		FontSize:        16,
	}
}

// IsPositioned reports whether the box has position other than static.
func (s *Style) IsPositioned() bool {
	return s.Position != PositionStatic
}
