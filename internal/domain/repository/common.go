package repository

// ListFilter carries the uniform list-endpoint filters (page/limit resolved
// to limit/offset by the application layer).
type ListFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}
