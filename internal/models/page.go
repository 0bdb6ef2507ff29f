package models

// Page is the paginated envelope used by listing endpoints.
type Page[T any] struct {
	TotalOfPages int `json:"totalOfPages" validate:"gte=0"`
	PageSize     int `json:"pageSize" validate:"gte=0"`
	Page         int `json:"page" validate:"gte=0"`
	Content      []T `json:"content" validate:"dive"`
}

// Paginate slices items into the requested 1-based page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	content := make([]T, end-start)
	copy(content, items[start:end])

	return Page[T]{
		TotalOfPages: totalPages,
		PageSize:     pageSize,
		Page:         page,
		Content:      content,
	}
}
