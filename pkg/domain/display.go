package domain

// DisplayEvent is one entry of a unified listing: the first stored event
// seen for a title, plus the facets merged from every event sharing it.
type DisplayEvent struct {
	Event
	AllDistricts []string `json:"allDistricts"`
	AllTimes     []string `json:"allTimes"`
	AllGroups    []string `json:"allGroups"`
}
