package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type seedFile struct {
	Geofences []seedGeofence `yaml:"geofences"`
}

type seedGeofence struct {
	Name      string   `yaml:"name"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	Radius    *float32 `yaml:"radius"`
	Enabled   *bool    `yaml:"enabled"`
}

// LoadGeofenceSeed reads the initial geofence list. An empty path yields no
// records. Entries default to the standard radius and to enabled.
func LoadGeofenceSeed(path string) ([]domain.GeofenceRecord, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	records := make([]domain.GeofenceRecord, 0, len(seed.Geofences))
	for _, g := range seed.Geofences {
		rec := domain.GeofenceRecord{
			Name:      g.Name,
			Latitude:  g.Latitude,
			Longitude: g.Longitude,
			Radius:    domain.DefaultRadius,
			Enabled:   true,
		}
		if g.Radius != nil {
			rec.Radius = *g.Radius
		}
		if g.Enabled != nil {
			rec.Enabled = *g.Enabled
		}
		records = append(records, rec)
	}
	return records, nil
}
