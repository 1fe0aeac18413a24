package domain

// Settings are the user preferences that survive across sessions,
// independent of the response cache namespace.
type Settings struct {
	PreferredLocation Location
	HiddenPeople      []string
}

func DefaultSettings() Settings {
	return Settings{PreferredLocation: LocationUnknown}
}

// Actions translates stored settings into the reducer actions that seed a
// fresh State before an ingestion pass.
func (s Settings) Actions() []Action {
	actions := make([]Action, 0, len(s.HiddenPeople)+1)
	actions = append(actions, SetPreferredLocation{Location: s.PreferredLocation})
	for _, email := range s.HiddenPeople {
		actions = append(actions, SetPersonVisibility{Email: email, Visible: false})
	}
	return actions
}
