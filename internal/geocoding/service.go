package geocoding

import (
	"context"
	"fmt"

	"github.com/civictrack/civictrack-backend/pkg/logger"
	"github.com/civictrack/civictrack-backend/pkg/nominatim"
)

// Result is the resolved address for a coordinate pair. Coordinates echoes
// the requested pair back to the caller. Fallback is true when the provider
// could not resolve and the address is the formatted coordinates.
type Result struct {
	Address     string      `json:"address"`
	DisplayName string      `json:"display_name,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Fallback    bool        `json:"fallback"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Service defines the behavior needed by the geocoding controller.
type Service interface {
	ResolveAddress(ctx context.Context, lat, lng float64) (*Result, error)
}

type reverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*nominatim.Place, error)
}

type service struct {
	geocoder reverseGeocoder
	logg     *logger.Logger
}

// NewService constructs a geocoding service around the provided client.
func NewService(geocoder reverseGeocoder, logg *logger.Logger) (Service, error) {
	if geocoder == nil {
		return nil, fmt.Errorf("reverse geocoder is required")
	}
	return &service{geocoder: geocoder, logg: logg}, nil
}

// ResolveAddress reverse-geocodes the coordinates. Provider failures never
// propagate: submission flows depend on this always returning an address, so
// unresolvable coordinates degrade to the formatted pair.
func (s *service) ResolveAddress(ctx context.Context, lat, lng float64) (*Result, error) {
	place, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("reverse geocode failed, using coordinate fallback: %v", err))
		}
		return &Result{
			Address:     fmt.Sprintf("%.6f, %.6f", lat, lng),
			Coordinates: Coordinates{Lat: lat, Lng: lng},
			Fallback:    true,
		}, nil
	}

	return &Result{
		Address:     place.ShortAddress,
		DisplayName: place.DisplayName,
		Coordinates: Coordinates{Lat: lat, Lng: lng},
	}, nil
}
