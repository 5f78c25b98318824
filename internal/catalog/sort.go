package catalog

import "trouve-ton-artisan/internal/apperr"

// Sort keys accepted by the list endpoints. Every order ends with a
// deterministic tie-break so pagination is stable under equal ratings.
const (
	SortRating = "rating"
	SortName   = "name"
	SortCity   = "city"
	SortRecent = "recent"
)

// DefaultSort is applied when the caller supplies no sort key.
const DefaultSort = SortRating

var orderClauses = map[string]string{
	SortRating: "rating DESC, company_name ASC, id ASC",
	SortName:   "company_name ASC, id ASC",
	SortCity:   "city ASC, company_name ASC, id ASC",
	SortRecent: "created_at DESC, id DESC",
}

// orderClause resolves a sort key. Unknown keys are an error, never a silent
// fallback.
func orderClause(key string) (string, error) {
	if key == "" {
		key = DefaultSort
	}
	clause, ok := orderClauses[key]
	if !ok {
		return "", apperr.Invalid("unknown sort key %q (expected rating, name, city or recent)", key)
	}
	return clause, nil
}
