package person

import (
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"
)

type rosterFile struct {
	People []Person `yaml:"people"`
}

// LoadRoster reads a YAML roster file and returns its entries in file order.
// Entries are not validated here; feed them through Repository.Add or
// Service.Create.
func LoadRoster(path string) ([]Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}

	var roster rosterFile
	if err := yamlv3.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	return roster.People, nil
}
