package listings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/property-assistant/server/internal/agent/model"
)

// Sort orders accepted by Catalog.Search.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortBedsDesc  = "beds-desc"
	SortSqftDesc  = "sqft-desc"
)

// Catalog is a read-only, in-process listing inventory.
type Catalog struct {
	properties []model.Property
	byID       map[int]int
}

// NewCatalog copies properties into a new catalog. Later IDs win on duplicates.
func NewCatalog(properties []model.Property) *Catalog {
	c := &Catalog{
		properties: make([]model.Property, len(properties)),
		byID:       make(map[int]int, len(properties)),
	}
	copy(c.properties, properties)
	for i, p := range c.properties {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns a catalog over MockProperties.
func Default() *Catalog {
	return NewCatalog(MockProperties)
}

// All returns every listing in insertion order.
func (c *Catalog) All() []model.Property {
	out := make([]model.Property, len(c.properties))
	copy(out, c.properties)
	return out
}

// Get looks a listing up by id.
func (c *Catalog) Get(id int) (model.Property, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Property{}, fmt.Errorf("property %d not found", id)
	}
	return c.properties[i], nil
}

// Search returns listings matching every present filter, ordered by sortBy.
// An unknown sortBy keeps insertion order.
func (c *Catalog) Search(f model.SearchFilters, sortBy string) []model.Property {
	matched := make([]model.Property, 0, len(c.properties))
	for _, p := range c.properties {
		if Matches(p, f) {
			matched = append(matched, p)
		}
	}
	sortProperties(matched, sortBy)
	return matched
}

// Matches reports whether p satisfies f. Bedrooms and bathrooms are minimums.
func Matches(p model.Property, f model.SearchFilters) bool {
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms < *f.Bedrooms {
		return false
	}
	if f.Bathrooms != nil && p.Bathrooms < *f.Bathrooms {
		return false
	}
	if f.PropertyType != nil && p.PropertyType != *f.PropertyType {
		return false
	}
	if f.Location != nil {
		term := strings.ToLower(strings.TrimSpace(*f.Location))
		searchable := strings.ToLower(strings.Join([]string{p.Address, p.City, p.State, p.ZipCode}, " "))
		if term != "" && !strings.Contains(searchable, term) {
			return false
		}
	}
	if f.SqftMin != nil && p.Sqft < *f.SqftMin {
		return false
	}
	if f.SqftMax != nil && p.Sqft > *f.SqftMax {
		return false
	}
	return true
}

func sortProperties(ps []model.Property, sortBy string) {
	var less func(a, b model.Property) bool
	switch sortBy {
	case SortPriceAsc:
		less = func(a, b model.Property) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b model.Property) bool { return a.Price > b.Price }
	case SortNewest:
		// ISO dates sort lexically
		less = func(a, b model.Property) bool { return a.ListingDate > b.ListingDate }
	case SortOldest:
		less = func(a, b model.Property) bool { return a.ListingDate < b.ListingDate }
	case SortBedsDesc:
		less = func(a, b model.Property) bool { return a.Bedrooms > b.Bedrooms }
	case SortSqftDesc:
		less = func(a, b model.Property) bool { return a.Sqft > b.Sqft }
	default:
		return
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}
