package webclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/mapper"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/weberr"
)

// GetBikeDetails scrapes a bike page. Results are cached per bike until
// InvalidateBike or InvalidateAll.
func (c *Client) GetBikeDetails(ctx context.Context, id string) (*model.BikeDetails, error) {
	if !model.IsBikeID(id) {
		return nil, weberr.Invalid("gear_id", "%q is not a bike id", id)
	}
	if d, ok := c.bikes[id]; ok {
		return d, nil
	}

	c.log.WithField("bike_id", id).Debug("getting bike details")
	res, err := c.sess.Get(ctx, "bikes/"+strings.TrimPrefix(id, "b"), nil)
	if err != nil {
		return nil, err
	}
	raw, err := extract.BikeDetail(res.Body)
	if err != nil {
		return nil, err
	}
	d, err := mapper.BikeDetails(raw)
	if err != nil {
		return nil, err
	}
	c.bikes[id] = d
	return d, nil
}

// GetAllBikes lists an athlete's bikes. Only the logged in athlete's full gear
// list is readable; anyone else gets the stubs from their profile page. A
// zero athleteID means the logged in athlete.
func (c *Client) GetAllBikes(ctx context.Context, athleteID int64) ([]*model.Bike, error) {
	if !c.isCurrent(athleteID) {
		a, err := c.GetAthlete(ctx, athleteID)
		if err != nil {
			return nil, err
		}
		return a.Bikes(ctx)
	}

	rows, err := c.gearList(ctx, "bikes")
	if err != nil {
		return nil, err
	}
	bikes := make([]*model.Bike, 0, len(rows))
	for _, row := range rows {
		b := mapper.Bike(row)
		b.Bind(c)
		bikes = append(bikes, b)
	}
	return bikes, nil
}

// GetAllShoes is GetAllBikes for shoes.
func (c *Client) GetAllShoes(ctx context.Context, athleteID int64) ([]*model.Shoe, error) {
	if !c.isCurrent(athleteID) {
		a, err := c.GetAthlete(ctx, athleteID)
		if err != nil {
			return nil, err
		}
		return a.Shoes(ctx)
	}

	rows, err := c.gearList(ctx, "shoes")
	if err != nil {
		return nil, err
	}
	shoes := make([]*model.Shoe, 0, len(rows))
	for _, row := range rows {
		shoes = append(shoes, mapper.Shoe(row))
	}
	return shoes, nil
}

func (c *Client) gearList(ctx context.Context, kind string) ([]extract.Fields, error) {
	c.log.WithField("kind", kind).Debug("getting gear list")
	res, err := c.sess.Get(ctx, fmt.Sprintf("athletes/%d/gear/%s", c.sess.AthleteID(), kind), nil)
	if err != nil {
		return nil, err
	}
	return extract.GearList(res.Body)
}

// GetAllGear returns the logged in athlete's bikes followed by their shoes.
func (c *Client) GetAllGear(ctx context.Context) ([]model.Gear, error) {
	bikes, err := c.GetAllBikes(ctx, 0)
	if err != nil {
		return nil, err
	}
	shoes, err := c.GetAllShoes(ctx, 0)
	if err != nil {
		return nil, err
	}

	gear := make([]model.Gear, 0, len(bikes)+len(shoes))
	for _, b := range bikes {
		gear = append(gear, b)
	}
	for _, s := range shoes {
		gear = append(gear, s)
	}
	return gear, nil
}

// GetGear finds one of the logged in athlete's bikes or shoes by id.
func (c *Client) GetGear(ctx context.Context, id string) (model.Gear, error) {
	if model.IsBikeID(id) {
		bikes, err := c.GetAllBikes(ctx, 0)
		if err != nil {
			return nil, err
		}
		for _, b := range bikes {
			if b.ID == id {
				return b, nil
			}
		}
	} else {
		shoes, err := c.GetAllShoes(ctx, 0)
		if err != nil {
			return nil, err
		}
		for _, s := range shoes {
			if s.ID == id {
				return s, nil
			}
		}
	}
	return nil, weberr.Scrape(weberr.ReasonNotFound, fmt.Sprintf("no gear with id %q", id), nil)
}
