package domain

// Location classifies where a person works on a given day. The three tokens
// are part of the persisted settings contract; anything else read back from
// storage or the upstream payload degrades to LocationUnknown.
type Location string

const (
	LocationOffice  Location = "officeLocation"
	LocationHome    Location = "homeOffice"
	LocationUnknown Location = "unknown"
)

func ParseLocation(raw string) Location {
	switch Location(raw) {
	case LocationOffice, LocationHome:
		return Location(raw)
	default:
		return LocationUnknown
	}
}

func (l Location) Label() string {
	switch l {
	case LocationOffice:
		return "office"
	case LocationHome:
		return "home"
	default:
		return "unknown"
	}
}
