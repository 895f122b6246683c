package garage

import (
	"sort"

	"evexpert-backend/internal/domain"
)

// Dedupe collapses records that describe the same advertisement and keeps the
// most recently captured one. Records are matched by normalized link/url
// first and then by equal price_eur and mileage, the latter only when
// price_eur is positive. Records with neither signal are always kept.
// The output is ordered by descending timestamp; the input is not modified.
func Dedupe(records []domain.Listing) []domain.Listing {
	sorted := make([]domain.Listing, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timestampOr0(&sorted[i]) > timestampOr0(&sorted[j])
	})

	kept := make([]domain.Listing, 0, len(sorted))
	keys := make([]string, 0, len(sorted))
	for i := range sorted {
		candidate := &sorted[i]
		key := identityKey(candidate)
		if key != "" && containsKey(keys, key) {
			continue
		}
		if hasPriceMileageTwin(kept, candidate) {
			continue
		}
		kept = append(kept, *candidate)
		keys = append(keys, key)
	}
	return kept
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func hasPriceMileageTwin(kept []domain.Listing, candidate *domain.Listing) bool {
	for i := range kept {
		item := &kept[i]
		if item.PriceEUR == nil || *item.PriceEUR <= 0 {
			continue
		}
		if !sameFloat(item.PriceEUR, candidate.PriceEUR) || !sameInt64(item.Mileage, candidate.Mileage) {
			continue
		}
		return true
	}
	return false
}

// sameFloat treats two absent values as equal and absent vs present as different.
func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
