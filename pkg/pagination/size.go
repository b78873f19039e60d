package pagination

import (
	"fmt"
	"strconv"
)

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 20

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 200

// ParseSize reads a size query parameter. Empty means PageDefaultSize and
// values above PageMaxSize are clamped.
func ParseSize(raw string) (int, error) {
	if raw == "" {
		return PageDefaultSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("size must be a positive integer")
	}
	return min(n, PageMaxSize), nil
}
