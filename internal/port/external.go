package port

import (
	"context"
	"encoding/json"
)

// Geocoder turns coordinates into a human place name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional emails.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// OEmbedFetcher fetches the embed metadata of one social post.
type OEmbedFetcher interface {
	FetchOEmbed(ctx context.Context, postURL string) (json.RawMessage, error)
}
