package garage

import (
	"errors"
	"sort"
	"strings"

	"evexpert-backend/internal/domain"
)

// SortOption selects the garage ordering.
type SortOption string

const (
	SortPriceAsc   SortOption = "price_asc"
	SortPriceDesc  SortOption = "price_desc"
	SortMileageAsc SortOption = "mileage_asc"
	SortScoreDesc  SortOption = "score_desc"
	SortDateDesc   SortOption = "date_desc"
)

// ErrUnknownSortOption is returned by ParseSortOption for values outside the five known options.
var ErrUnknownSortOption = errors.New("unknown sort option")

// ParseSortOption maps a query value to a SortOption. Empty means date_desc.
func ParseSortOption(s string) (SortOption, error) {
	switch opt := SortOption(s); opt {
	case "":
		return SortDateDesc, nil
	case SortPriceAsc, SortPriceDesc, SortMileageAsc, SortScoreDesc, SortDateDesc:
		return opt, nil
	}
	return "", ErrUnknownSortOption
}

// Select filters records by filterText and returns them in the order given
// by opt. Equal keys keep their input order. An unrecognised opt orders by date.
func Select(records []domain.Listing, filterText string, opt SortOption) []domain.Listing {
	out := Filter(records, filterText)
	sort.SliceStable(out, less(out, opt))
	return out
}

// Filter keeps records where filterText is a case-insensitive substring of
// model, make, location, notes or any tag. Empty text keeps everything.
func Filter(records []domain.Listing, filterText string) []domain.Listing {
	out := make([]domain.Listing, 0, len(records))
	needle := strings.ToLower(filterText)
	for i := range records {
		if needle == "" || matches(&records[i], needle) {
			out = append(out, records[i])
		}
	}
	return out
}

func matches(l *domain.Listing, needle string) bool {
	for _, field := range []*string{l.Model, l.Make, l.Location, l.Notes} {
		if field != nil && strings.Contains(strings.ToLower(*field), needle) {
			return true
		}
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func less(out []domain.Listing, opt SortOption) func(i, j int) bool {
	switch opt {
	case SortPriceAsc:
		return func(i, j int) bool { return floatOr0(out[i].PriceCZK) < floatOr0(out[j].PriceCZK) }
	case SortPriceDesc:
		return func(i, j int) bool { return floatOr0(out[i].PriceCZK) > floatOr0(out[j].PriceCZK) }
	case SortMileageAsc:
		return func(i, j int) bool { return int64Or0(out[i].Mileage) < int64Or0(out[j].Mileage) }
	case SortScoreDesc:
		return func(i, j int) bool { return floatOr0(out[i].ExpertScore) > floatOr0(out[j].ExpertScore) }
	default:
		return func(i, j int) bool { return timestampOr0(&out[i]) > timestampOr0(&out[j]) }
	}
}
