package bot

// totalPages returns ceil(total/size) for a positive page size.
func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// pageBounds returns the visible half-open slice [lo, hi) for a zero-based
// page index. Callers clamp the page first.
func pageBounds(total, size, page int) (int, int) {
	if total <= 0 || size <= 0 || page < 0 {
		return 0, 0
	}
	lo := page * size
	if lo >= total {
		return 0, 0
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// clampPage forces the page index into [0, pages-1].
func clampPage(total, size, page int) int {
	pages := totalPages(total, size)
	if pages == 0 || page < 0 {
		return 0
	}
	if page > pages-1 {
		return pages - 1
	}
	return page
}

func hasPrev(page int) bool { return page > 0 }

func hasNext(total, size, page int) bool {
	return page < totalPages(total, size)-1
}
