package dto

// Page — постраничный ответ в формате исходного API
// (content/totalElements/totalPages/number/size).
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPage[T any](content []T, total int64, number, size int) Page[T] {
	if content == nil {
		content = []T{}
	}

	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        number,
		Size:          size,
	}
}
