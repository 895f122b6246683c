package garage

import "evexpert-backend/internal/domain"

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }
func i64p(v int64) *int64     { return &v }

func tsp(v int64) *domain.EpochSeconds {
	ts := domain.EpochSeconds(v)
	return &ts
}

func modelsOf(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		if l.Model != nil {
			out[i] = *l.Model
		}
	}
	return out
}
