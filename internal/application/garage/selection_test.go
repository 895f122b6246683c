package garage

import (
	"testing"

	"evexpert-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOption(t *testing.T) {
	opt, err := ParseSortOption("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, opt)

	for _, s := range []string{"price_asc", "price_desc", "mileage_asc", "score_desc", "date_desc"} {
		opt, err := ParseSortOption(s)
		require.NoError(t, err, s)
		assert.Equal(t, SortOption(s), opt)
	}

	_, err = ParseSortOption("cheapest")
	assert.ErrorIs(t, err, ErrUnknownSortOption)
	_, err = ParseSortOption("PRICE_ASC")
	assert.ErrorIs(t, err, ErrUnknownSortOption)
}

func TestFilter_CaseInsensitive(t *testing.T) {
	in := []domain.Listing{{Model: strp("Model Y")}, {Model: strp("Enyaq")}}
	assert.Equal(t, []string{"Model Y"}, modelsOf(Filter(in, "model y")))
	assert.Equal(t, []string{"Model Y"}, modelsOf(Filter(in, "MODEL")))
}

func TestFilter_Fields(t *testing.T) {
	in := []domain.Listing{
		{Model: strp("m1"), Make: strp("Tesla")},
		{Model: strp("m2"), Location: strp("Berlin")},
		{Model: strp("m3"), Notes: strp("call the seller Friday")},
		{Model: strp("m4"), Tags: []string{"winter", "Favourite"}},
		{Model: strp("m5")},
	}
	assert.Equal(t, []string{"m1"}, modelsOf(Filter(in, "tesla")))
	assert.Equal(t, []string{"m2"}, modelsOf(Filter(in, "berl")))
	assert.Equal(t, []string{"m3"}, modelsOf(Filter(in, "FRIDAY")))
	assert.Equal(t, []string{"m4"}, modelsOf(Filter(in, "favour")))
	assert.Len(t, Filter(in, ""), 5)
	assert.Empty(t, Filter(in, "nothing matches this"))
}

func TestFilter_EmptyRecordNeverMatches(t *testing.T) {
	out := Filter([]domain.Listing{{}}, "x")
	require.NotNil(t, out)
	assert.Empty(t, out)
}

// Equal scores keep input order: [1:50, 2:50, 3:90] → [3, 1, 2].
func TestSelect_ScoreDescIsStable(t *testing.T) {
	in := []domain.Listing{
		{Model: strp("1"), ExpertScore: f64p(50)},
		{Model: strp("2"), ExpertScore: f64p(50)},
		{Model: strp("3"), ExpertScore: f64p(90)},
	}
	assert.Equal(t, []string{"3", "1", "2"}, modelsOf(Select(in, "", SortScoreDesc)))
}

func TestSelect_SortOptions(t *testing.T) {
	in := []domain.Listing{
		{Model: strp("a"), PriceCZK: f64p(500), Mileage: i64p(30), Timestamp: tsp(2)},
		{Model: strp("b"), PriceCZK: f64p(100), Timestamp: tsp(3)},
		{Model: strp("c"), Mileage: i64p(10), ExpertScore: f64p(7), Timestamp: tsp(1)},
	}
	assert.Equal(t, []string{"c", "b", "a"}, modelsOf(Select(in, "", SortPriceAsc)))
	assert.Equal(t, []string{"a", "b", "c"}, modelsOf(Select(in, "", SortPriceDesc)))
	assert.Equal(t, []string{"b", "c", "a"}, modelsOf(Select(in, "", SortMileageAsc)))
	assert.Equal(t, []string{"c", "a", "b"}, modelsOf(Select(in, "", SortScoreDesc)))
	assert.Equal(t, []string{"b", "a", "c"}, modelsOf(Select(in, "", SortDateDesc)))
}

func TestSelect_DoesNotReorderInput(t *testing.T) {
	in := []domain.Listing{{Model: strp("x"), PriceCZK: f64p(2)}, {Model: strp("y"), PriceCZK: f64p(1)}}
	_ = Select(in, "", SortPriceAsc)
	assert.Equal(t, []string{"x", "y"}, modelsOf(in))
}

// sort(filter(X)) == filter(sort(X)) for every text and option.
func TestSelect_FilterSortCommute(t *testing.T) {
	in := []domain.Listing{
		{Model: strp("Model 3"), Make: strp("Tesla"), PriceCZK: f64p(700000), Mileage: i64p(40000), ExpertScore: f64p(60), Timestamp: tsp(4)},
		{Model: strp("Enyaq iV"), Make: strp("Skoda"), PriceCZK: f64p(650000), ExpertScore: f64p(60), Timestamp: tsp(9)},
		{Model: strp("Model Y"), Make: strp("Tesla"), Mileage: i64p(15000), Timestamp: tsp(4)},
		{Model: strp("ID.4"), Location: strp("Model town"), PriceCZK: f64p(650000), Mileage: i64p(15000), ExpertScore: f64p(80)},
		{Model: strp("Ioniq 5"), Tags: []string{"tesla killer"}, PriceCZK: f64p(820000), Timestamp: tsp(1)},
	}
	opts := []SortOption{SortPriceAsc, SortPriceDesc, SortMileageAsc, SortScoreDesc, SortDateDesc}
	for _, text := range []string{"", "model", "TESLA", "id.", "zzz"} {
		for _, opt := range opts {
			sortThenFilter := Filter(Select(in, "", opt), text)
			filterThenSort := Select(Filter(in, text), "", opt)
			assert.Equal(t, modelsOf(filterThenSort), modelsOf(sortThenFilter), "text=%q opt=%s", text, opt)
		}
	}
}
