package geocoding

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultLanguage  = "fr"
	DefaultUserAgent = "athlete-portfolio-uploader/1.0"
)

// Client resolves coordinates through a Nominatim compatible reverse endpoint.
type Client struct {
	httpClient *resty.Client
	language   string
}

var _ port.Geocoder = (*Client)(nil)

type address struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	Country      string `json:"country"`
}

type reverseResponse struct {
	Address address `json:"address"`
	Error   string  `json:"error"`
}

func NewClient(baseURL, language, userAgent string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = DefaultLanguage
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(10 * time.Second)
	return &Client{httpClient: client, language: language}
}

// ReverseGeocode returns "<place>, <country>", or whichever of the two is known.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	var body reverseResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format":          "jsonv2",
			"lat":             strconv.FormatFloat(lat, 'f', 6, 64),
			"lon":             strconv.FormatFloat(lon, 'f', 6, 64),
			"accept-language": c.language,
		}).
		SetHeader("Accept", "application/json").
		SetResult(&body).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("geocoding error (%d): %s", resp.StatusCode(), resp.String())
	}
	if body.Error != "" {
		return "", fmt.Errorf("geocoding error: %s", body.Error)
	}
	return placeName(body.Address), nil
}

func placeName(a address) string {
	place := firstNonEmpty(a.City, a.Town, a.Village, a.Municipality)
	if place == "" {
		place = a.County
	}
	switch {
	case place != "" && a.Country != "":
		return place + ", " + a.Country
	case place != "":
		return place
	default:
		return a.Country
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
