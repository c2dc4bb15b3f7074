package pagination

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 25
	// MaxSize caps how many rows any page can request.
	MaxSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page int
	Size int
}

// Meta describes the page that was actually served.
type Meta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Normalize enforces the default and maximum sizes and a 1-based page.
func (p Params) Normalize() Params {
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return p
}

// TotalPages returns ceil(totalItems/size) with a minimum of 1 page.
func TotalPages(totalItems, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	pages := (totalItems + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp pulls an out-of-range page back into [1, TotalPages]. A filter change
// that shrinks the set must never turn into an error.
func Clamp(page, totalItems, size int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(totalItems, size); page > max {
		return max
	}
	return page
}

// Slice returns the requested page of items plus its metadata. Concatenating
// every page from 1 to TotalPages reconstructs the input exactly.
func Slice[T any](items []T, params Params) ([]T, Meta) {
	params = params.Normalize()
	total := len(items)
	page := Clamp(params.Page, total, params.Size)

	start := (page - 1) * params.Size
	if start > total {
		start = total
	}
	end := start + params.Size
	if end > total {
		end = total
	}

	return items[start:end], Meta{
		Page:       page,
		Size:       params.Size,
		TotalItems: total,
		TotalPages: TotalPages(total, params.Size),
	}
}
