package shortcode

// Breakpoints of the responsive window, in CSS pixels.
const (
	BreakpointSmall  = 576
	BreakpointMedium = 768
	BreakpointLarge  = 992
)

// Carousel is the sliding window over Total items showing Items at once.
// Positions are item offsets; the browser script mirrors these rules.
type Carousel struct {
	Total int
	Items int
}

func (c Carousel) items() int {
	if c.Items < 1 {
		return 1
	}
	return c.Items
}

func (c Carousel) MaxPosition() int {
	if m := c.Total - c.items(); m > 0 {
		return m
	}
	return 0
}

func (c Carousel) Pages() int {
	if c.Total <= 0 {
		return 0
	}
	n := c.items()
	return (c.Total + n - 1) / n
}

// Next advances one window and wraps to the start from the last position.
func (c Carousel) Next(pos int) int {
	last := c.MaxPosition()
	if pos >= last {
		return 0
	}
	return min(pos+c.items(), last)
}

// Prev goes back one window and wraps to the end from the first position.
func (c Carousel) Prev(pos int) int {
	if pos <= 0 {
		return c.MaxPosition()
	}
	return max(pos-c.items(), 0)
}

func (c Carousel) GoToPage(page int) int {
	if page < 0 {
		page = 0
	}
	return min(page*c.items(), c.MaxPosition())
}

// Page is the indicator dot lit for pos.
func (c Carousel) Page(pos int) int {
	return pos / c.items()
}

// Dots lists page indexes for the indicator strip.
func (c Carousel) Dots() []int {
	out := make([]int, c.Pages())
	for i := range out {
		out[i] = i
	}
	return out
}

// ItemsForWidth is the window size at a viewport width. Playlists cap the
// medium breakpoint at three; galleries always show three there.
func ItemsForWidth(width, items int, playlist bool) int {
	switch {
	case width < BreakpointSmall:
		return 1
	case width < BreakpointMedium:
		return 2
	case width < BreakpointLarge:
		if playlist {
			return min(3, items)
		}
		return 3
	}
	return items
}
