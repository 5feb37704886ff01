package pagination

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 25
	// MaxLimit caps how many rows one list call returns.
	MaxLimit = 100
)

// NormalizeLimit enforces the default and maximum page sizes.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize clamps limit and floors offset at zero.
func Normalize(limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	return NormalizeLimit(limit), offset
}
