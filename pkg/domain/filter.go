package domain

// FilterState is the set of facet selections submitted by a client. Empty
// slices and nil bounds place no constraint on their facet.
type FilterState struct {
	Search        string   `json:"search,omitempty"`
	Context       []string `json:"context,omitempty"`
	TimeOfDay     []string `json:"timeOfDay,omitempty"`
	Style         []string `json:"style,omitempty"`
	Districts     []string `json:"districts,omitempty"`
	PriceCategory []string `json:"priceCategory,omitempty"`
	Features      []string `json:"features,omitempty"`
	MinPrice      *int     `json:"minPrice,omitempty"`
	MaxPrice      *int     `json:"maxPrice,omitempty"`
}

// IsEmpty reports whether the state constrains nothing. A nil state is empty.
func (f *FilterState) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Search == "" &&
		len(f.Context) == 0 &&
		len(f.TimeOfDay) == 0 &&
		len(f.Style) == 0 &&
		len(f.Districts) == 0 &&
		len(f.PriceCategory) == 0 &&
		len(f.Features) == 0 &&
		f.MinPrice == nil &&
		f.MaxPrice == nil
}
