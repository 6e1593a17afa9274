// Package geo resolves configured waypoints to coordinates when the
// operator gives a city/country pair instead of lat/lon.
package geo

import (
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/sirupsen/logrus"

	"github.com/harborline/voyage-weather/internal/config"
	"github.com/harborline/voyage-weather/internal/scheduler"
)

// Resolver wraps the geocoding API. Resolution is best-effort: waypoints
// that cannot be resolved are skipped with a warning, never fatal.
type Resolver struct {
	enabled bool
	log     *logrus.Logger
}

// NewResolver configures the geocoder with apiKey. An empty key disables
// geocoding entirely.
func NewResolver(apiKey string, log *logrus.Logger) *Resolver {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &Resolver{
		enabled: apiKey != "",
		log:     log,
	}
}

// ResolveTargets converts configured waypoints into scheduler targets,
// geocoding the ones without coordinates.
func (r *Resolver) ResolveTargets(waypoints []config.Waypoint) []scheduler.Target {
	targets := make([]scheduler.Target, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.HasCoordinates() {
			targets = append(targets, scheduler.Target{Name: wp.Name, Lat: *wp.Lat, Lon: *wp.Lon})
			continue
		}

		lat, lon, err := r.resolve(wp)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"waypoint": wp.Name,
				"error":    err,
			}).Warn("skipping unresolvable waypoint")
			continue
		}
		targets = append(targets, scheduler.Target{Name: wp.Name, Lat: lat, Lon: lon})
	}
	return targets
}

func (r *Resolver) resolve(wp config.Waypoint) (float64, float64, error) {
	if !r.enabled {
		return 0, 0, fmt.Errorf("geocoder disabled: no API key configured")
	}

	location, err := geocoder.Geocoding(geocoder.Address{
		City:    wp.City,
		Country: wp.Country,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s, %s: %w", wp.City, wp.Country, err)
	}
	return location.Latitude, location.Longitude, nil
}
