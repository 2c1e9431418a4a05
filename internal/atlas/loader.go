package atlas

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/catch-bash/internal/geo"
)

//go:embed data/countries.yaml
var defaultCountriesYAML []byte

// datasetFile mirrors the on-disk YAML layout.
type datasetFile struct {
	Countries []countryRecord `yaml:"countries"`
}

type countryRecord struct {
	Code    string    `yaml:"code"`
	Name    string    `yaml:"name"`
	Region  string    `yaml:"region"`
	LatLng  []float64 `yaml:"latlng"` // [lat, lng]
	Borders []string  `yaml:"borders"`
	Aliases []string  `yaml:"aliases"`
}

// Parse decodes a YAML dataset and builds an atlas from it.
func Parse(data []byte) (*Atlas, error) {
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	countries := make([]Country, 0, len(f.Countries))
	for i, r := range f.Countries {
		if len(r.LatLng) != 2 {
			return nil, fmt.Errorf("%w: entry %d (%s) needs latlng [lat, lng]", ErrInvalidCountry, i, r.Code)
		}
		countries = append(countries, Country{
			Code:    r.Code,
			Name:    r.Name,
			Region:  r.Region,
			LatLng:  geo.LatLng{Lat: r.LatLng[0], Lng: r.LatLng[1]},
			Borders: r.Borders,
			Aliases: r.Aliases,
		})
	}
	return New(countries)
}

// Load loads the country dataset.
// Search order: customPath -> ~/.catchbash/countries.yaml -> ./data/countries.yaml -> embedded default
func Load(customPath string) (*Atlas, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset %s: %w", customPath, err)
		}
		a, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", customPath, err)
		}
		return a, nil
	}

	// Try user data directory
	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".catchbash", "countries.yaml")); err == nil {
			if a, err := Parse(data); err == nil {
				return a, nil
			}
		}
	}

	// Try local data directory
	if data, err := os.ReadFile(filepath.Join("data", "countries.yaml")); err == nil {
		if a, err := Parse(data); err == nil {
			return a, nil
		}
	}

	return Default(), nil
}

var (
	defaultOnce  sync.Once
	defaultAtlas *Atlas
)

// Default returns the atlas built from the embedded dataset. It panics if
// the embedded file is invalid.
func Default() *Atlas {
	defaultOnce.Do(func() {
		a, err := Parse(defaultCountriesYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded country dataset: %v", err))
		}
		defaultAtlas = a
	})
	return defaultAtlas
}

// DefaultYAML returns the embedded dataset.
func DefaultYAML() []byte {
	return defaultCountriesYAML
}
