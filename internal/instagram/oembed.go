package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

var ErrMissingCredentials = errors.New("instagram app id and secret are required")

// OEmbedClient queries the Instagram oEmbed endpoint with an app access token.
type OEmbedClient struct {
	httpClient *resty.Client
}

var _ port.OEmbedFetcher = (*OEmbedClient)(nil)

func NewOEmbedClient(baseURL, appID, appSecret string) (*OEmbedClient, error) {
	if appID == "" || appSecret == "" {
		return nil, ErrMissingCredentials
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(appID + "|" + appSecret).
		SetTimeout(10 * time.Second)
	return &OEmbedClient{httpClient: client}, nil
}

// FetchOEmbed returns the raw oEmbed document of one post.
func (c *OEmbedClient) FetchOEmbed(ctx context.Context, postURL string) (json.RawMessage, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"url":        postURL,
			"omitscript": "true",
		}).
		SetHeader("Accept", "application/json").
		Get("/instagram_oembed")
	if err != nil {
		return nil, fmt.Errorf("oembed request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("oembed error (%d): %s", resp.StatusCode(), resp.String())
	}
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("oembed returned invalid JSON for %s", postURL)
	}
	return json.RawMessage(body), nil
}
