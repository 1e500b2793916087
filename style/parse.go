package style

// Declaration-list parsing for the style snapshot. This is the tolerant
// subset of CSS value syntax the layout engine cares about; anything it
// does not recognize is left at the property's initial value.

import (
	"strconv"
	"strings"
)

// Parse parses a semicolon-separated declaration list ("display: flex;
// width: 100px") into a Style. Malformed declarations are skipped, never
// an error: layout must always receive some value for every property.
func Parse(decls string) *Style {
	s := New()
	for _, decl := range strings.Split(decls, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.Index(decl, ":")
		if colon < 0 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl[:colon]))
		val := strings.TrimSpace(decl[colon+1:])
		if val == "" {
			continue
		}
		applyDeclaration(s, prop, strings.ToLower(val))
	}
	return s
}

func applyDeclaration(s *Style, prop, val string) {
	switch prop {
	case "display":
		switch val {
		case "block":
			s.Display = DisplayBlock
		case "inline", "inline-block":
			s.Display = DisplayInline
		case "flex":
			s.Display = DisplayFlex
		case "grid":
			s.Display = DisplayGrid
		case "none":
			s.Display = DisplayNone
		}
	case "position":
		switch val {
		case "static":
			s.Position = PositionStatic
		case "relative":
			s.Position = PositionRelative
		case "absolute":
			s.Position = PositionAbsolute
		case "fixed":
			s.Position = PositionFixed
		case "sticky":
			s.Position = PositionSticky
		}
	case "width":
		setLength(&s.Width, val)
	case "height":
		setLength(&s.Height, val)
	case "min-width":
		setLength(&s.MinWidth, val)
	case "min-height":
		setLength(&s.MinHeight, val)
	case "max-width":
		if val == "none" {
			s.MaxWidth = Auto()
		} else {
			setLength(&s.MaxWidth, val)
		}
	case "max-height":
		if val == "none" {
			s.MaxHeight = Auto()
		} else {
			setLength(&s.MaxHeight, val)
		}
	case "margin":
		setEdgesShorthand(&s.Margin, val)
	case "margin-top":
		setLength(&s.Margin.Top, val)
	case "margin-right":
		setLength(&s.Margin.Right, val)
	case "margin-bottom":
		setLength(&s.Margin.Bottom, val)
	case "margin-left":
		setLength(&s.Margin.Left, val)
	case "padding":
		setEdgesShorthand(&s.Padding, val)
	case "padding-top":
		setLength(&s.Padding.Top, val)
	case "padding-right":
		setLength(&s.Padding.Right, val)
	case "padding-bottom":
		setLength(&s.Padding.Bottom, val)
	case "padding-left":
		setLength(&s.Padding.Left, val)
	case "border", "border-width":
		setEdgesShorthand(&s.Border, firstLengthField(val))
	case "border-top-width":
		setLength(&s.Border.Top, val)
	case "border-right-width":
		setLength(&s.Border.Right, val)
	case "border-bottom-width":
		setLength(&s.Border.Bottom, val)
	case "border-left-width":
		setLength(&s.Border.Left, val)
	case "inset":
		setEdgesShorthand(&s.Inset, val)
	case "top":
		setLength(&s.Inset.Top, val)
	case "right":
		setLength(&s.Inset.Right, val)
	case "bottom":
		setLength(&s.Inset.Bottom, val)
	case "left":
		setLength(&s.Inset.Left, val)
	case "flex-direction":
		switch val {
		case "row":
			s.FlexDirection = FlexDirectionRow
		case "row-reverse":
			s.FlexDirection = FlexDirectionRowReverse
		case "column":
			s.FlexDirection = FlexDirectionColumn
		case "column-reverse":
			s.FlexDirection = FlexDirectionColumnReverse
		}
	case "flex-wrap":
		switch val {
		case "nowrap":
			s.FlexWrap = FlexWrapNowrap
		case "wrap":
			s.FlexWrap = FlexWrapWrap
		case "wrap-reverse":
			s.FlexWrap = FlexWrapWrapReverse
		}
	case "justify-content":
		switch val {
		case "flex-start", "start":
			s.JustifyContent = JustifyFlexStart
		case "flex-end", "end":
			s.JustifyContent = JustifyFlexEnd
		case "center":
			s.JustifyContent = JustifyCenter
		case "space-between":
			s.JustifyContent = JustifySpaceBetween
		case "space-around":
			s.JustifyContent = JustifySpaceAround
		case "space-evenly":
			s.JustifyContent = JustifySpaceEvenly
		}
	case "align-items":
		switch val {
		case "stretch":
			s.AlignItems = AlignItemsStretch
		case "flex-start", "start":
			s.AlignItems = AlignItemsFlexStart
		case "flex-end", "end":
			s.AlignItems = AlignItemsFlexEnd
		case "center":
			s.AlignItems = AlignItemsCenter
		case "baseline":
			s.AlignItems = AlignItemsBaseline
		}
	case "align-self":
		switch val {
		case "auto":
			s.AlignSelf = AlignSelfAuto
		case "stretch":
			s.AlignSelf = AlignSelfStretch
		case "flex-start", "start":
			s.AlignSelf = AlignSelfFlexStart
		case "flex-end", "end":
			s.AlignSelf = AlignSelfFlexEnd
		case "center":
			s.AlignSelf = AlignSelfCenter
		case "baseline":
			s.AlignSelf = AlignSelfBaseline
		}
	case "align-content":
		switch val {
		case "stretch":
			s.AlignContent = AlignContentStretch
		case "flex-start", "start":
			s.AlignContent = AlignContentFlexStart
		case "flex-end", "end":
			s.AlignContent = AlignContentFlexEnd
		case "center":
			s.AlignContent = AlignContentCenter
		case "space-between":
			s.AlignContent = AlignContentSpaceBetween
		case "space-around":
			s.AlignContent = AlignContentSpaceAround
		}
	case "flex-grow":
		if f, err := strconv.ParseFloat(val, 64); err == nil && f >= 0 {
			s.FlexGrow = f
		}
	case "flex-shrink":
		if f, err := strconv.ParseFloat(val, 64); err == nil && f >= 0 {
			s.FlexShrink = f
		}
	case "flex-basis":
		setLength(&s.FlexBasis, val)
	case "flex":
		applyFlexShorthand(s, val)
	case "order":
		if n, err := strconv.Atoi(val); err == nil {
			s.Order = n
		}
	case "gap":
		applyGapShorthand(s, val)
	case "row-gap":
		if v, ok := parsePx(val); ok {
			s.RowGap = v
		}
	case "column-gap":
		if v, ok := parsePx(val); ok {
			s.ColumnGap = v
		}
	case "grid-template-columns":
		if tracks, ok := ParseTrackList(val); ok {
			s.GridTemplateColumns = tracks
		}
	case "grid-template-rows":
		if tracks, ok := ParseTrackList(val); ok {
			s.GridTemplateRows = tracks
		}
	case "grid-auto-columns":
		if t, ok := parseTrackSize(val); ok {
			s.GridAutoColumns = t
		}
	case "grid-auto-rows":
		if t, ok := parseTrackSize(val); ok {
			s.GridAutoRows = t
		}
	case "grid-auto-flow":
		s.GridAutoFlowColumn = strings.Contains(val, "column")
		s.GridAutoFlowDense = strings.Contains(val, "dense")
	case "grid-column":
		if p, ok := parsePlacement(val); ok {
			s.GridColumn = p
		}
	case "grid-row":
		if p, ok := parsePlacement(val); ok {
			s.GridRow = p
		}
	case "grid-column-start":
		if l, ok := parseGridLine(val); ok {
			s.GridColumn.Start = l
		}
	case "grid-column-end":
		if l, ok := parseGridLine(val); ok {
			s.GridColumn.End = l
		}
	case "grid-row-start":
		if l, ok := parseGridLine(val); ok {
			s.GridRow.Start = l
		}
	case "grid-row-end":
		if l, ok := parseGridLine(val); ok {
			s.GridRow.End = l
		}
	case "justify-items":
		if a, ok := parseItemAlign(val); ok {
			s.JustifyItems = a
		}
	case "justify-self":
		if a, ok := parseItemAlign(val); ok {
			s.JustifySelf = a
		}
	case "z-index":
		if val == "auto" {
			s.ZIndex = AutoZIndex()
		} else if n, err := strconv.Atoi(val); err == nil {
			s.ZIndex = ZIndex{Value: n}
		}
	case "opacity":
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			if f < 0 {
				f = 0
			}
			if f > 1 {
				f = 1
			}
			s.Opacity = f
		}
	case "transform":
		s.HasTransform = val != "none"
	case "filter":
		s.HasFilter = val != "none"
	case "isolation":
		s.Isolate = val == "isolate"
	case "overflow", "overflow-x", "overflow-y":
		s.ScrollContainer = val != "visible"
	case "font-size":
		if v, ok := parsePx(val); ok && v > 0 {
			s.FontSize = v
		}
	}
}

// parseLength parses "auto", "Npx", "N%" or a bare number (treated as px).
func parseLength(val string) (Length, bool) {
	if val == "auto" {
		return Auto(), true
	}
	if strings.HasSuffix(val, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64); err == nil {
			return Pct(f), true
		}
		return Length{}, false
	}
	if v, ok := parsePx(val); ok {
		return Px(v), true
	}
	return Length{}, false
}

func parsePx(val string) (float64, bool) {
	val = strings.TrimSuffix(val, "px")
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func setLength(dst *Length, val string) {
	if l, ok := parseLength(val); ok {
		*dst = l
	}
}

// setEdgesShorthand applies the CSS 1-to-4 value shorthand expansion.
func setEdgesShorthand(e *Edges, val string) {
	fields := strings.Fields(val)
	lengths := make([]Length, 0, 4)
	for _, f := range fields {
		l, ok := parseLength(f)
		if !ok {
			return
		}
		lengths = append(lengths, l)
	}
	switch len(lengths) {
	case 1:
		e.Top, e.Right, e.Bottom, e.Left = lengths[0], lengths[0], lengths[0], lengths[0]
	case 2:
		e.Top, e.Bottom = lengths[0], lengths[0]
		e.Right, e.Left = lengths[1], lengths[1]
	case 3:
		e.Top = lengths[0]
		e.Right, e.Left = lengths[1], lengths[1]
		e.Bottom = lengths[2]
	case 4:
		e.Top, e.Right, e.Bottom, e.Left = lengths[0], lengths[1], lengths[2], lengths[3]
	}
}

// firstLengthField extracts the leading length token from compound values
// such as "1px solid black".
func firstLengthField(val string) string {
	fields := strings.Fields(val)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// applyFlexShorthand handles the common forms of the flex shorthand:
// "none", a single grow factor, "grow shrink", "grow basis" and
// "grow shrink basis".
func applyFlexShorthand(s *Style, val string) {
	if val == "none" {
		s.FlexGrow, s.FlexShrink, s.FlexBasis = 0, 0, Auto()
		return
	}
	if val == "auto" {
		s.FlexGrow, s.FlexShrink, s.FlexBasis = 1, 1, Auto()
		return
	}
	fields := strings.Fields(val)
	switch len(fields) {
	case 1:
		if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
			s.FlexGrow, s.FlexShrink, s.FlexBasis = f, 1, Px(0)
		}
	case 2:
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return
		}
		if g, err2 := strconv.ParseFloat(fields[1], 64); err2 == nil {
			s.FlexGrow, s.FlexShrink, s.FlexBasis = f, g, Px(0)
		} else if b, ok := parseLength(fields[1]); ok {
			s.FlexGrow, s.FlexShrink, s.FlexBasis = f, 1, b
		}
	case 3:
		f, err1 := strconv.ParseFloat(fields[0], 64)
		g, err2 := strconv.ParseFloat(fields[1], 64)
		b, ok := parseLength(fields[2])
		if err1 == nil && err2 == nil && ok {
			s.FlexGrow, s.FlexShrink, s.FlexBasis = f, g, b
		}
	}
}

func applyGapShorthand(s *Style, val string) {
	fields := strings.Fields(val)
	switch len(fields) {
	case 1:
		if v, ok := parsePx(fields[0]); ok {
			s.RowGap, s.ColumnGap = v, v
		}
	case 2:
		r, ok1 := parsePx(fields[0])
		c, ok2 := parsePx(fields[1])
		if ok1 && ok2 {
			s.RowGap, s.ColumnGap = r, c
		}
	}
}

func parseItemAlign(val string) (ItemAlign, bool) {
	switch val {
	case "auto":
		return ItemAlignAuto, true
	case "stretch":
		return ItemAlignStretch, true
	case "start", "flex-start":
		return ItemAlignStart, true
	case "end", "flex-end":
		return ItemAlignEnd, true
	case "center":
		return ItemAlignCenter, true
	}
	return 0, false
}

// ParseTrackList parses a grid template track list, including repeat(n,
// ...) expansion and minmax() functions: "100px 1fr 1fr",
// "repeat(2, 1fr)", "minmax(100px, 1fr) auto".
func ParseTrackList(val string) ([]TrackSize, bool) {
	var tracks []TrackSize
	if val == "none" {
		return nil, true
	}
	for _, tok := range splitTrackTokens(val) {
		if strings.HasPrefix(tok, "repeat(") {
			inner, ok := functionBody(tok)
			if !ok {
				return nil, false
			}
			comma := strings.Index(inner, ",")
			if comma < 0 {
				return nil, false
			}
			count, err := strconv.Atoi(strings.TrimSpace(inner[:comma]))
			if err != nil || count < 1 {
				return nil, false
			}
			repeated, ok := ParseTrackList(strings.TrimSpace(inner[comma+1:]))
			if !ok {
				return nil, false
			}
			for i := 0; i < count; i++ {
				tracks = append(tracks, repeated...)
			}
			continue
		}
		t, ok := parseTrackSize(tok)
		if !ok {
			return nil, false
		}
		tracks = append(tracks, t)
	}
	return tracks, true
}

func parseTrackSize(tok string) (TrackSize, bool) {
	if strings.HasPrefix(tok, "minmax(") {
		inner, ok := functionBody(tok)
		if !ok {
			return TrackSize{}, false
		}
		comma := strings.Index(inner, ",")
		if comma < 0 {
			return TrackSize{}, false
		}
		min, ok1 := parseBreadth(strings.TrimSpace(inner[:comma]))
		max, ok2 := parseBreadth(strings.TrimSpace(inner[comma+1:]))
		if !ok1 || !ok2 {
			return TrackSize{}, false
		}
		return MinMax(min, max), true
	}
	b, ok := parseBreadth(tok)
	if !ok {
		return TrackSize{}, false
	}
	if b.IsFr() {
		return FrTrack(b.Value), true
	}
	return TrackSize{Min: b, Max: b}, true
}

func parseBreadth(tok string) (Breadth, bool) {
	switch {
	case tok == "auto":
		return AutoBreadth(), true
	case strings.HasSuffix(tok, "fr"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "fr"), 64); err == nil && f >= 0 {
			return Fr(f), true
		}
	case strings.HasSuffix(tok, "%"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64); err == nil {
			return PctBreadth(f), true
		}
	default:
		if v, ok := parsePx(tok); ok {
			return PxBreadth(v), true
		}
	}
	return Breadth{}, false
}

// splitTrackTokens splits on whitespace at paren depth zero, so function
// arguments stay attached to their function token.
func splitTrackTokens(val string) []string {
	var toks []string
	depth := 0
	start := -1
	for i := 0; i < len(val); i++ {
		c := val[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case (c == ' ' || c == '\t') && depth == 0:
			if start >= 0 {
				toks = append(toks, val[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, val[start:])
	}
	return toks
}

// functionBody returns the text between the first '(' and the matching
// trailing ')'.
func functionBody(tok string) (string, bool) {
	open := strings.Index(tok, "(")
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return "", false
	}
	return tok[open+1 : len(tok)-1], true
}

// parsePlacement parses grid-row/grid-column values: "2", "span 3",
// "1 / 3", "1 / span 2".
func parsePlacement(val string) (GridPlacement, bool) {
	parts := strings.Split(val, "/")
	p := AutoPlacement()
	start, ok := parseGridLine(strings.TrimSpace(parts[0]))
	if !ok {
		return GridPlacement{}, false
	}
	p.Start = start
	if len(parts) > 1 {
		end, ok := parseGridLine(strings.TrimSpace(parts[1]))
		if !ok {
			return GridPlacement{}, false
		}
		p.End = end
	}
	return p, true
}

func parseGridLine(val string) (GridLine, bool) {
	if val == "auto" {
		return AutoLine(), true
	}
	if strings.HasPrefix(val, "span") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(val, "span")))
		if err != nil || n < 1 {
			return GridLine{}, false
		}
		return Span(n), true
	}
	n, err := strconv.Atoi(val)
	if err != nil || n == 0 {
		return GridLine{}, false
	}
	return LineIndex(n), true
}
