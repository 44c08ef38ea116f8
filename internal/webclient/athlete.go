package webclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/mapper"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/strava"
	"github.com/lildude/stravaweb/internal/weberr"
)

// ErrNoAPI is returned by the REST backed calls of a client built without one.
var ErrNoAPI = errors.New("webclient: no REST API client configured")

const challengeShareURL = "https://www.strava.com/challenges/%d"

// GetAthlete scrapes an athlete's profile page. A zero id is the logged in
// athlete, who gets the rich profile and lazily loaded full gear lists. Other
// athletes only have the gear stubs shown on their profile.
func (c *Client) GetAthlete(ctx context.Context, id int64) (*model.Athlete, error) {
	if id == 0 {
		id = c.sess.AthleteID()
	}
	current := c.isCurrent(id)

	raw, err := c.athletePage(ctx, id, current)
	if err != nil {
		return nil, err
	}
	a, extras := mapper.Athlete(raw)
	a.Bind(c)
	a.SetExtras(extras)
	if !current {
		bikes, shoes := mapper.StubGear(raw["bikes"], raw["shoes"])
		for _, b := range bikes {
			if b.ID != "" {
				b.Bind(c)
			}
		}
		a.SetGear(bikes, shoes)
	}
	return a, nil
}

// GetAthleteExtras returns the photos and completed challenges of an athlete.
func (c *Client) GetAthleteExtras(ctx context.Context, id int64) (*model.AthleteExtras, error) {
	raw, err := c.athletePage(ctx, id, c.isCurrent(id))
	if err != nil {
		return nil, err
	}
	_, extras := mapper.Athlete(raw)
	return extras, nil
}

func (c *Client) athletePage(ctx context.Context, id int64, current bool) (extract.Fields, error) {
	log := c.log.WithField("athlete_id", id)
	log.Debug("getting athlete")
	res, err := c.sess.Get(ctx, "athletes/"+itoa(id), nil)
	if err != nil {
		return nil, err
	}
	return extract.Athlete(res.Body, id, current, log)
}

// GetChallenge scrapes a challenge page.
func (c *Client) GetChallenge(ctx context.Context, id int64) (*model.Challenge, error) {
	log := c.log.WithField("challenge_id", id)
	log.Debug("getting challenge")
	res, err := c.sess.Get(ctx, "challenges/"+itoa(id), nil)
	if err != nil {
		return nil, err
	}
	raw, err := extract.Challenge(res.Body, id, fmt.Sprintf(challengeShareURL, id), log)
	if err != nil {
		return nil, err
	}
	return mapper.Challenge(raw), nil
}

// AthleteFromAPI returns the REST API's authenticated athlete with the
// scraped fields available lazily. Gear summaries from the API are kept and
// their bikes are bound for page details; without them gear is scraped on
// first access.
func (c *Client) AthleteFromAPI(ctx context.Context) (*model.Athlete, error) {
	if c.api == nil {
		return nil, ErrNoAPI
	}
	ra, err := strava.GetAuthenticatedAthlete(ctx, c.api)
	if err != nil {
		return nil, err
	}

	a := &model.Athlete{
		ID:            ra.ID,
		Firstname:     ra.Firstname,
		Lastname:      ra.Lastname,
		Profile:       ra.Profile,
		ProfileMedium: ra.ProfileMedium,
		City:          ra.City,
		State:         ra.State,
		Country:       ra.Country,
		Sex:           ra.Sex,
	}
	a.Bind(c)

	if ra.Bikes == nil && ra.Shoes == nil {
		c.log.WithField("athlete_id", ra.ID).Warn("no gear from the API, missing profile:read_all scope?")
		return a, nil
	}
	bikes := make([]*model.Bike, 0, len(ra.Bikes))
	for _, g := range ra.Bikes {
		b := &model.Bike{ID: g.ID, Name: g.Name, Distance: g.Distance, Primary: g.Primary}
		b.Bind(c)
		bikes = append(bikes, b)
	}
	shoes := make([]*model.Shoe, 0, len(ra.Shoes))
	for _, g := range ra.Shoes {
		shoes = append(shoes, &model.Shoe{ID: g.ID, Name: g.Name, Distance: g.Distance, Primary: g.Primary})
	}
	a.SetGear(bikes, shoes)
	return a, nil
}

// BikeFromAPI returns a bike from the REST API. The API's fields win; frame
// type, weight and components not given by it come from the bike page.
func (c *Client) BikeFromAPI(ctx context.Context, id string) (*model.Bike, error) {
	if !model.IsBikeID(id) {
		return nil, weberr.Invalid("gear_id", "%q is not a bike id", id)
	}
	g, err := c.GearFromAPI(ctx, id)
	if err != nil {
		return nil, err
	}
	b, ok := g.(*model.Bike)
	if !ok {
		return nil, weberr.Scrape(weberr.ReasonLayoutChanged, fmt.Sprintf("REST gear %q is not a bike", g.GearID()), nil)
	}
	return b, nil
}

// GearFromAPI returns any gear from the REST API. Bikes are bound for their
// page details.
func (c *Client) GearFromAPI(ctx context.Context, id string) (model.Gear, error) {
	if c.api == nil {
		return nil, ErrNoAPI
	}
	g, err := strava.GetGear(ctx, c.api, id)
	if err != nil {
		return nil, err
	}
	if !model.IsBikeID(g.ID) {
		return &model.Shoe{
			ID:          g.ID,
			Name:        g.Name,
			Distance:    g.Distance,
			Primary:     g.Primary,
			BrandName:   g.BrandName,
			ModelName:   g.ModelName,
			Description: g.Description,
		}, nil
	}

	b := &model.Bike{ID: g.ID, Name: g.Name, Distance: g.Distance, Primary: g.Primary}
	b.Merge(&model.BikeDetails{
		FrameType:   model.FrameType(g.FrameType),
		BrandName:   g.BrandName,
		ModelName:   g.ModelName,
		Description: g.Description,
	}, model.FillMissing)
	b.Bind(c)
	return b, nil
}
