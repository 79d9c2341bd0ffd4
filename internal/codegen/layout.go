package codegen

import (
	"sort"
	"strconv"

	"github.com/maboudharam/openbento/internal/site"
)

// Grid geometry of the generated page.
const (
	DesktopColumns   = 9
	DesktopRowHeight = 64
	DesktopGap       = 8

	MobileColumns   = 2
	MobileRowHeight = 80
	MobileGap       = 12

	// unplacedSentinel orders blocks without a grid start after placed ones.
	unplacedSentinel = 999
)

// Span is a column and row span pair.
type Span struct {
	ColSpan int `json:"colSpan"`
	RowSpan int `json:"rowSpan"`
}

// MobileLayout shrinks a desktop block into the two column mobile grid.
// Wide blocks (colSpan >= 5) take the full width, everything else one column.
// Medium blocks (colSpan 3 or 4) get at least two rows so they do not turn
// into thin strips.
func MobileLayout(block site.Block) Span {
	out := Span{ColSpan: 1, RowSpan: block.RowSpan}
	if block.ColSpan >= 5 {
		out.ColSpan = MobileColumns
	}
	if block.ColSpan >= 3 && block.ColSpan < 5 && out.RowSpan < 2 {
		out.RowSpan = 2
	}
	return out
}

// SortForMobile returns the blocks ordered by grid row then grid column.
// Blocks without coordinates sort last; ties keep their input order.
func SortForMobile(blocks []site.Block) []site.Block {
	order := mobileOrder(blocks)
	sorted := make([]site.Block, len(order))
	for i, idx := range order {
		sorted[i] = blocks[idx]
	}
	return sorted
}

// mobileOrder returns the indexes of blocks in mobile display order.
func mobileOrder(blocks []site.Block) []int {
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := blocks[order[a]], blocks[order[b]]
		if lr, rr := coordinate(left.GridRow), coordinate(right.GridRow); lr != rr {
			return lr < rr
		}
		return coordinate(left.GridColumn) < coordinate(right.GridColumn)
	})
	return order
}

func coordinate(v *int) int {
	if v == nil {
		return unplacedSentinel
	}
	return *v
}

// BorderRadius picks the corner radius tier for a block from its smaller
// dimension.
func BorderRadius(block site.Block) string {
	switch minDim := min(block.ColSpan, block.RowSpan); {
	case minDim <= 1:
		return "0.5rem"
	case minDim <= 2:
		return "0.625rem"
	case minDim <= 3:
		return "0.75rem"
	default:
		return "0.875rem"
	}
}

// Placement is the precomputed layout of one block, emitted into the
// generated page so the runtime never recomputes it.
type Placement struct {
	Radius  string         `json:"radius"`
	Desktop map[string]int `json:"desktop"`
	Mobile  Span           `json:"mobile"`
}

// PlaceBlock computes the desktop grid lines, mobile span and radius of block.
func PlaceBlock(block site.Block) Placement {
	desktop := map[string]int{}
	if block.GridColumn != nil {
		desktop["gridColumnStart"] = *block.GridColumn
		desktop["gridColumnEnd"] = *block.GridColumn + block.ColSpan
	}
	if block.GridRow != nil {
		desktop["gridRowStart"] = *block.GridRow
		desktop["gridRowEnd"] = *block.GridRow + block.RowSpan
	}
	return Placement{
		Radius:  BorderRadius(block),
		Desktop: desktop,
		Mobile:  MobileLayout(block),
	}
}

// gridTemplate returns the CSS repeat() for n equal columns.
func gridTemplate(n int) string {
	return "repeat(" + strconv.Itoa(n) + ", 1fr)"
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}
