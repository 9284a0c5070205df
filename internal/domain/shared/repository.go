package shared

// Filter carries the listing options shared by every repository query:
// pagination, ordering and a free-text search term. Aggregate-specific
// filters embed it and add their own fields.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns the listing defaults: first page of twenty,
// newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}
