package chart

// HoverSync links the segments of a donut to its external legend cards.
// At most one legend card is highlighted and at most one segment is
// active at a time. Indices refer to Donut.Slices.
type HoverSync struct {
	size        int
	highlighted int
	active      int
}

func NewHoverSync(size int) *HoverSync {
	return &HoverSync{size: size, highlighted: -1, active: -1}
}

// HoverSegment reacts to the pointer moving over the chart. A negative or
// out-of-range index means no segment is under the pointer and clears every
// legend highlight.
func (h *HoverSync) HoverSegment(index int) {
	h.highlighted = -1
	if h.valid(index) {
		h.highlighted = index
	}
}

// LeaveChart clears the legend highlight.
func (h *HoverSync) LeaveChart() {
	h.highlighted = -1
}

// EnterLegend activates the segment, and its tooltip, at the same index.
func (h *HoverSync) EnterLegend(index int) {
	if h.valid(index) {
		h.active = index
	}
}

// LeaveLegend clears the active segment.
func (h *HoverSync) LeaveLegend() {
	h.active = -1
}

// HighlightedLegend returns the highlighted legend index or -1.
func (h *HoverSync) HighlightedLegend() int {
	return h.highlighted
}

// ActiveSegment returns the active segment index or -1.
func (h *HoverSync) ActiveSegment() int {
	return h.active
}

// TooltipActive reports whether a segment tooltip is showing.
func (h *HoverSync) TooltipActive() bool {
	return h.active >= 0
}

func (h *HoverSync) valid(index int) bool {
	return index >= 0 && index < h.size
}
