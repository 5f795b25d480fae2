package model

// SearchFilters is the structured query extracted from free text.
// A nil field means the dimension is unconstrained.
type SearchFilters struct {
	PriceMin     *int64        `json:"priceMin,omitempty"`
	PriceMax     *int64        `json:"priceMax,omitempty"`
	Bedrooms     *int          `json:"bedrooms,omitempty"`
	Bathrooms    *float64      `json:"bathrooms,omitempty"`
	PropertyType *PropertyType `json:"propertyType,omitempty"`
	Location     *string       `json:"location,omitempty"`
	SqftMin      *int          `json:"sqftMin,omitempty"`
	SqftMax      *int          `json:"sqftMax,omitempty"`
}

// Empty reports whether no constraint was extracted.
func (f SearchFilters) Empty() bool {
	return f.PriceMin == nil && f.PriceMax == nil && f.Bedrooms == nil && f.Bathrooms == nil &&
		f.PropertyType == nil && f.Location == nil && f.SqftMin == nil && f.SqftMax == nil
}

// Filter field names as they appear in the model's JSON output.
const (
	FieldPriceMin     = "priceMin"
	FieldPriceMax     = "priceMax"
	FieldBedrooms     = "bedrooms"
	FieldBathrooms    = "bathrooms"
	FieldPropertyType = "propertyType"
	FieldLocation     = "location"
	FieldSqftMin      = "sqftMin"
	FieldSqftMax      = "sqftMax"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
