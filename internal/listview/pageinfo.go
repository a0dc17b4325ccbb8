package listview

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PageSize   int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PageSize), 0 when there are no rows
}

// NewPageInfo computes pagination metadata.
func NewPageInfo(page, pageSize, total int) PageInfo {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

// Offset returns the number of rows before the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// StartRow is the X of "Showing X to Y of Z".
func (p PageInfo) StartRow() int {
	return min(p.Offset()+1, p.Total)
}

// EndRow is the Y of "Showing X to Y of Z".
func (p PageInfo) EndRow() int {
	return min(p.Page*p.PageSize, p.Total)
}

// Clamp returns page limited to [1, TotalPages]. With no pages it
// returns 1.
func (p PageInfo) Clamp(page int) int {
	if page > p.TotalPages {
		page = p.TotalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Disabled reports whether pagination controls have nowhere to go.
func (p PageInfo) Disabled() bool {
	return p.TotalPages <= 1
}

// PageNumbers returns the page numbers to display in pagination
// controls, at most 5 centered on the current page. An empty listing
// still shows a single page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	last := max(p.TotalPages, 1)
	start := p.Page - maxButtons/2
	if start < 1 {
		start = 1
	}
	end := start + maxButtons - 1
	if end > last {
		end = last
		start = max(end-maxButtons+1, 1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
