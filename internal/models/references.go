package models

// ReferencesModel holds metadata for the ids mentioned in an entry or list.
type ReferencesModel struct {
	Routes []RouteReference `json:"routes"`
}

// RouteReference is GTFS metadata for a published line.
type RouteReference struct {
	Line      string `json:"line"`
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

// NewEmptyReferences creates a References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Routes: []RouteReference{},
	}
}
