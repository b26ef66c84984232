package ui

// Carousel tracks the visible slide of a wrap-around slider.
type Carousel struct {
	Current int
	count   int
}

func NewCarousel(n int) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{count: n}
}

// Next advances one slide, wrapping to the first.
func (c *Carousel) Next() {
	if c.count == 0 {
		return
	}
	c.Current = (c.Current + 1) % c.count
}

// Prev goes back one slide, wrapping to the last.
func (c *Carousel) Prev() {
	if c.count == 0 {
		return
	}
	c.Current = (c.Current - 1 + c.count) % c.count
}

// GoTo jumps to slide i. Out-of-range indexes are ignored.
func (c *Carousel) GoTo(i int) {
	if i < 0 || i >= c.count {
		return
	}
	c.Current = i
}

func (c *Carousel) Len() int {
	return c.count
}
