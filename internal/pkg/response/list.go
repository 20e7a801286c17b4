package response

// List returns items ready for JSON encoding.
// A nil slice becomes an empty one so lists always render as [] instead of null.
func List[T any](items []T) []T {
	if items == nil {
		return make([]T, 0)
	}
	return items
}
