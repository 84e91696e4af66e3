package analytics

// Paginate slices one page out of records. totalPages is always at least
// 1, even for an empty set. An out-of-range page yields an empty page
// rather than clamping back into range; callers that want a redirect to
// page 1 decide that themselves.
func Paginate[T any](records []T, page, pageSize int) ([]T, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(records) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start < 0 || start >= len(records) {
		return []T{}, totalPages
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}
