// Package pagination provides the page arithmetic shared by both filtering
// engines and by the HTTP layer.
//
// Pages are 1-based. A page past the end is not an error: it is simply an
// empty slice of a collection whose total is still reported.
//
// Example usage:
//
//	start, end := pagination.ComputeSlice(3, 10, 25) // 20, 25
//	pages := pagination.TotalPages(25, 10)          // 3
package pagination

import "math"

// Offset returns the index of the first item on pageNumber.
// Non-positive page numbers are treated as page 1. An offset that does not
// fit in an int saturates at math.MaxInt.
func Offset(pageNumber, pageSize int) int {
	if pageNumber < 1 || pageSize < 1 {
		return 0
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (pageNumber - 1) * pageSize
}

// ComputeSlice returns the half-open index range [start, end) of pageNumber
// within a collection of totalItems. Both bounds are clamped to
// [0, totalItems], so a page past the end yields start == end.
func ComputeSlice(pageNumber, pageSize, totalItems int) (int, int) {
	if totalItems <= 0 || pageSize < 1 {
		return 0, 0
	}
	if PastEnd(pageNumber, pageSize, totalItems) {
		return totalItems, totalItems
	}

	start := Offset(pageNumber, pageSize)
	end := totalItems
	if pageSize < totalItems-start {
		end = start + pageSize
	}

	return start, end
}

// PastEnd reports whether pageNumber starts beyond the last of totalItems.
// It never multiplies, so any page number is safe.
func PastEnd(pageNumber, pageSize, totalItems int) bool {
	if totalItems <= 0 || pageSize < 1 {
		return true
	}
	if pageNumber < 1 {
		return false
	}
	return pageNumber-1 > (totalItems-1)/pageSize
}

// TotalPages returns ceil(totalItems / pageSize), and 0 for an empty
// collection.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize < 1 {
		return 0
	}
	return (totalItems-1)/pageSize + 1
}

// PageLen returns how many items pageNumber holds:
// min(pageSize, max(0, totalItems-(pageNumber-1)*pageSize)).
func PageLen(pageNumber, pageSize, totalItems int) int {
	start, end := ComputeSlice(pageNumber, pageSize, totalItems)
	return end - start
}

// Slice returns the items of pageNumber from an already filtered collection.
// The returned slice shares its backing array with items.
func Slice[T any](items []T, pageNumber, pageSize int) []T {
	start, end := ComputeSlice(pageNumber, pageSize, len(items))
	return items[start:end]
}
