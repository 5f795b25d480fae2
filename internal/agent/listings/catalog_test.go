package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/property-assistant/server/internal/agent/model"
)

func ids(ps []model.Property) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCatalog_Search(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		filters model.SearchFilters
		sortBy  string
		want    []int
	}{
		{
			name:    "no filters keeps everything",
			filters: model.SearchFilters{},
			want:    []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
		{
			name: "three bedroom house under 500k in Austin",
			filters: model.SearchFilters{
				Bedrooms:     model.Ptr(3),
				PriceMax:     model.Ptr(int64(500000)),
				PropertyType: model.Ptr(model.House),
				Location:     model.Ptr("Austin"),
			},
			want: []int{4},
		},
		{
			name: "condos by zip sorted by price",
			filters: model.SearchFilters{
				PropertyType: model.Ptr(model.Condo),
				Location:     model.Ptr("78701"),
			},
			sortBy: SortPriceAsc,
			want:   []int{1, 12, 3},
		},
		{
			name:    "location is case-insensitive",
			filters: model.SearchFilters{Location: model.Ptr("DRIPPING springs")},
			want:    []int{11},
		},
		{
			name:    "half baths count as minimum",
			filters: model.SearchFilters{Bathrooms: model.Ptr(3.5)},
			want:    []int{3, 6},
		},
		{
			name:    "sqft range",
			filters: model.SearchFilters{SqftMin: model.Ptr(1500), SqftMax: model.Ptr(1800)},
			sortBy:  SortSqftDesc,
			want:    []int{5, 8, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Search(tt.filters, tt.sortBy)))
		})
	}
}

func TestCatalog_Get(t *testing.T) {
	c := Default()

	p, err := c.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "Modern Townhouse", p.Title)

	_, err = c.Get(404)
	assert.Error(t, err)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Title = "changed"

	p, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Modern Downtown Loft", p.Title)
}

func TestCatalog_SortNewest(t *testing.T) {
	got := ids(Default().Search(model.SearchFilters{PropertyType: model.Ptr(model.Townhouse)}, SortNewest))
	assert.Equal(t, []int{5}, got)

	newest := Default().Search(model.SearchFilters{}, SortNewest)
	require.NotEmpty(t, newest)
	assert.Equal(t, 10, newest[0].ID)
	assert.Equal(t, 11, newest[len(newest)-1].ID)
}
