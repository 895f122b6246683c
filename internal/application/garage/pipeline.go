package garage

import "evexpert-backend/internal/domain"

// Query is the garage view requested by a client.
type Query struct {
	FilterText string
	Sort       SortOption
}

// Result is the canonical garage for one snapshot.
type Result struct {
	Listings []domain.Listing
	// UniqueCount is the number of distinct listings before the text filter.
	UniqueCount int
}

// Catalogue runs reconcile, dedupe and select over a snapshot.
// It is deterministic: the same snapshot and query always give the same result.
func Catalogue(snapshot []domain.Listing, q Query) Result {
	unique := Dedupe(ReconcileAll(snapshot))
	return Result{
		Listings:    Select(unique, q.FilterText, q.Sort),
		UniqueCount: len(unique),
	}
}
