// Package strava implements the few official REST API calls the scraping layer
// reconciles against: the authenticated athlete and gear lookups.
package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lildude/stravaweb/internal/client"
	"golang.org/x/oauth2"
)

// BaseURL is the REST API root.
var BaseURL = "https://www.strava.com/api/v3"

// SummaryGear is the gear summary embedded in an Athlete.
type SummaryGear struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Primary  bool    `json:"primary"`
	Distance float64 `json:"distance"`
}

// Athlete holds the data we use from the REST API for an athlete.
type Athlete struct {
	ID            int64         `json:"id"`
	Firstname     string        `json:"firstname"`
	Lastname      string        `json:"lastname"`
	Profile       string        `json:"profile"`
	ProfileMedium string        `json:"profile_medium"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Country       string        `json:"country"`
	Sex           string        `json:"sex"`
	Bikes         []SummaryGear `json:"bikes"`
	Shoes         []SummaryGear `json:"shoes"`
}

// Gear holds a detailed gear record. FrameType is only set for bikes.
type Gear struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Primary     bool    `json:"primary"`
	Distance    float64 `json:"distance"`
	BrandName   string  `json:"brand_name"`
	ModelName   string  `json:"model_name"`
	FrameType   int     `json:"frame_type"`
	Description string  `json:"description"`
}

// NewClient returns a REST client that signs requests with a static access token.
func NewClient(ctx context.Context, baseURL, accessToken string) (*client.Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return client.NewClient(u, oauth2.NewClient(ctx, ts)), nil
}

// GetAuthenticatedAthlete returns the athlete the access token belongs to.
func GetAuthenticatedAthlete(ctx context.Context, c *client.Client) (*Athlete, error) {
	var a Athlete
	req, err := c.NewRequest(ctx, http.MethodGet, "athlete", nil)
	if err != nil {
		return nil, fmt.Errorf("creating get athlete request: %w", err)
	}

	if _, err := c.Do(req, &a); err != nil { //nolint:bodyclose // closed by Do
		return nil, fmt.Errorf("getting authenticated athlete: %w", err)
	}

	return &a, nil
}

// GetGear returns a single gear record.
func GetGear(ctx context.Context, c *client.Client, id string) (*Gear, error) {
	var g Gear
	req, err := c.NewRequest(ctx, http.MethodGet, "gear/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("creating get gear request: %w", err)
	}

	if _, err := c.Do(req, &g); err != nil { //nolint:bodyclose // closed by Do
		return nil, fmt.Errorf("getting gear %s: %w", id, err)
	}

	return &g, nil
}

// Identity reports the REST API's authenticated athlete id. It satisfies the
// session package's IdentitySource.
type Identity struct {
	Client *client.Client
}

// AthleteID returns the id of the athlete the API token belongs to.
func (i Identity) AthleteID(ctx context.Context) (int64, error) {
	a, err := GetAuthenticatedAthlete(ctx, i.Client)
	if err != nil {
		return 0, err
	}
	return a.ID, nil
}
