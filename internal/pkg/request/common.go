package request

// ByIDRequest is a common struct for endpoints that require a numeric ID path parameter.
type ByIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// ListParams holds the offset-style paging parameters accepted by list endpoints.
// Range checks belong to the service that interprets them.
type ListParams struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=10"`
}
