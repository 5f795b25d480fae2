package model

// PropertyType is the closed set of listing types the search understands.
type PropertyType string

const (
	House     PropertyType = "house"
	Condo     PropertyType = "condo"
	Apartment PropertyType = "apartment"
	Townhouse PropertyType = "townhouse"
)

// PropertyTypes lists every valid PropertyType in prompt order.
var PropertyTypes = []PropertyType{House, Condo, Apartment, Townhouse}

// Valid reports whether p is one of PropertyTypes.
func (p PropertyType) Valid() bool {
	for _, t := range PropertyTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Property is a listing. Fields tagged json:"-" are internal and must never
// reach a prompt or a public response.
type Property struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Price        int64        `json:"price"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    float64      `json:"bathrooms"`
	Sqft         int          `json:"sqft"`
	PropertyType PropertyType `json:"property_type"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	ZipCode      string       `json:"zip_code"`
	Description  string       `json:"description,omitempty"`
	Features     []string     `json:"features,omitempty"`
	YearBuilt    int          `json:"year_built,omitempty"`
	HOAFees      int          `json:"hoa_fees,omitempty"`
	Status       string       `json:"status"`
	DaysOnMarket int          `json:"days_on_market"`
	ListingDate  string       `json:"listing_date"`

	OwnerAccountID     string  `json:"-"`
	AgentCommissionPct float64 `json:"-"`
	InternalNotes      string  `json:"-"`
}
