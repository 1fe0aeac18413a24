package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version           int      `toml:"version"`
	PreferredLocation string   `toml:"preferred_location"`
	HiddenPeople      []string `toml:"hidden_people"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.PreferredLocation == "" {
		s.PreferredLocation = "unknown"
	}
	if s.HiddenPeople == nil {
		s.HiddenPeople = []string{}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}
