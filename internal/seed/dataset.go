package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Record struct {
	ID    string `yaml:"id" json:"id" bson:"id"`
	Name  string `yaml:"name" json:"name" bson:"name"`
	Value string `yaml:"value" json:"value" bson:"value"`
}

type Dataset struct {
	Records []Record `yaml:"records"`
}

func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) Validate() error {
	if len(d.Records) == 0 {
		return fmt.Errorf("dataset has no records")
	}
	seen := make(map[string]bool, len(d.Records))
	for i, r := range d.Records {
		if r.ID == "" || r.Name == "" {
			return fmt.Errorf("record %d: id and name are required", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
