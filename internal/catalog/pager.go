package catalog

const (
	DefaultPageSize      = 6
	DefaultPageIncrement = 6
)

// Pager is the "show more / show less" cursor over a result set.
type Pager struct {
	pageSize  int
	increment int
	visible   int
}

// NewPager returns a pager showing pageSize records, growing by increment.
// Non-positive values fall back to the defaults.
func NewPager(pageSize, increment int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if increment <= 0 {
		increment = DefaultPageIncrement
	}
	return &Pager{pageSize: pageSize, increment: increment, visible: pageSize}
}

func (p *Pager) Visible() int  { return p.visible }
func (p *Pager) PageSize() int { return p.pageSize }

// Reset puts the cursor back on the first page. Call it whenever the category
// or query changes.
func (p *Pager) Reset() {
	p.visible = p.pageSize
}

// More grows the cursor by one increment.
func (p *Pager) More() {
	p.visible += p.increment
}

// Less collapses back to the first page, but only once the cursor has grown
// past one page and page reports nothing left to show.
func (p *Pager) Less(page Page) bool {
	if p.visible <= p.pageSize || page.HasMore {
		return false
	}
	p.Reset()
	return true
}

// CanLess reports whether the toggle would currently collapse the list.
func (p *Pager) CanLess(page Page) bool {
	return !page.HasMore && p.visible > p.pageSize
}

// Toggle acts like the single show more/less button under a list: it grows
// the cursor while records remain and collapses it once they are exhausted.
// It returns false when there was nothing to do.
func (p *Pager) Toggle(page Page) bool {
	if page.HasMore {
		p.More()
		return true
	}
	return p.Less(page)
}
