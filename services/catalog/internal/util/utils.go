package util

// PageSize is the number of products per catalog page.
const PageSize = 3

// NextCursor returns the cursor of the following page. A next page is
// advertised only when the current one is full and something lies beyond it.
func NextCursor(cursor int64, pageSize, pageLen int, hasMore bool) (int64, bool) {
	if pageLen < pageSize || !hasMore {
		return 0, false
	}
	return cursor + int64(pageSize), true
}
