package util

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Calculate turns a 1-based page and size into an offset/limit pair.
func Calculate(page, size int) (int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * size, size
}
