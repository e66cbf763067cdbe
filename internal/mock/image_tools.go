package mock

import (
	"context"
)

// HEICConverter implements imaging.HEICConverter for tests.
type HEICConverter struct {
	Out []byte
	Err error

	Called bool
	GotIn  []byte
}

func (m *HEICConverter) Convert(ctx context.Context, data []byte) ([]byte, error) {
	m.Called = true
	m.GotIn = data
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Out, nil
}

// Geocoder implements port.Geocoder for tests.
type Geocoder struct {
	Place string
	Err   error

	Called bool
	GotLat float64
	GotLon float64
}

func (m *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	m.Called = true
	m.GotLat, m.GotLon = lat, lon
	if m.Err != nil {
		return "", m.Err
	}
	return m.Place, nil
}
