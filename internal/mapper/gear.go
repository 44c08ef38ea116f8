package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/weberr"
)

// gear applies the renames shared by bikes and shoes from the gear JSON.
func gear(raw extract.Fields) extract.Fields {
	d := clone(raw)
	Rename(d, "display_name", "name", model.FillMissing, nil)
	Rename(d, "default", "primary", model.FillMissing, nil)
	Rename(d, "total_distance", "distance", model.FillMissing, func(v any) any {
		switch t := v.(type) {
		case float64:
			return t * 1000
		case string:
			m, err := ParseDistance(t)
			if err != nil {
				return nil
			}
			return m
		}
		return nil
	})
	return d
}

// Bike maps one entry of the athlete bikes JSON. The numeric id gets its "b".
func Bike(raw extract.Fields) *model.Bike {
	d := gear(raw)
	Rename(d, "id", "id", model.Overwrite, func(v any) any {
		id := idString(v)
		if id == "" || model.IsBikeID(id) {
			return id
		}
		return "b" + id
	})

	b := &model.Bike{
		ID:       str(d, "id"),
		Name:     str(d, "name"),
		Distance: number(d, "distance"),
		Primary:  boolean(d, "primary"),
	}
	details := &model.BikeDetails{
		BrandName:   str(d, "brand_name"),
		ModelName:   str(d, "model_name"),
		Description: str(d, "description"),
		Weight:      number(d, "weight"),
	}
	switch ft := d["frame_type"].(type) {
	case float64:
		details.FrameType = model.FrameType(int(ft))
	case string:
		details.FrameType, _ = model.ParseFrameType(ft)
	}
	b.Merge(details, model.Overwrite)
	return b
}

// Shoe maps one entry of the athlete shoes JSON. Numeric ids get a "g" so
// they match the gear ids on activities.
func Shoe(raw extract.Fields) *model.Shoe {
	d := gear(raw)
	id := idString(d["id"])
	if id != "" && !strings.HasPrefix(id, "g") {
		id = "g" + id
	}
	return &model.Shoe{
		ID:          id,
		Name:        str(d, "name"),
		Distance:    number(d, "distance"),
		Primary:     boolean(d, "primary"),
		BrandName:   str(d, "brand_name"),
		ModelName:   str(d, "model_name"),
		Description: str(d, "description"),
	}
}

// StubGear maps the sidebar gear of a public profile into bikes and shoes
// carrying only id, name and distance.
func StubGear(bikes, shoes any) ([]*model.Bike, []*model.Shoe) {
	outBikes := []*model.Bike{}
	for _, d := range stubs(bikes) {
		outBikes = append(outBikes, &model.Bike{ID: str(d, "id"), Name: str(d, "name"), Distance: number(d, "distance")})
	}
	outShoes := []*model.Shoe{}
	for _, d := range stubs(shoes) {
		outShoes = append(outShoes, &model.Shoe{ID: str(d, "id"), Name: str(d, "name"), Distance: number(d, "distance")})
	}
	return outBikes, outShoes
}

func stubs(raw any) []extract.Fields {
	list, _ := raw.([]any)
	out := make([]extract.Fields, 0, len(list))
	for _, r := range list {
		d, ok := asFields(r)
		if !ok {
			continue
		}
		d = clone(d)
		Rename(d, "distance", "distance", model.Overwrite, func(v any) any {
			s, ok := v.(string)
			if !ok {
				return nil
			}
			m, err := ParseDistance(s)
			if err != nil {
				return nil
			}
			return math.Trunc(m)
		})
		out = append(out, d)
	}
	return out
}

// BikeDetails maps the bike page extraction.
func BikeDetails(raw extract.Fields) (*model.BikeDetails, error) {
	d := clone(raw)
	details := &model.BikeDetails{
		BrandName: str(d, "brand_name"),
		ModelName: str(d, "model_name"),
	}
	if ft := str(d, "frame_type"); ft != "" {
		f, err := model.ParseFrameType(ft)
		if err != nil {
			return nil, weberr.Scrape(weberr.ReasonLayoutChanged, "bike frame type", err)
		}
		details.FrameType = f
	}
	if w := str(d, "weight"); w != "" {
		kg, err := ParseNumber(w)
		if err != nil {
			return nil, weberr.Scrape(weberr.ReasonLayoutChanged, "bike weight", err)
		}
		details.Weight = kg
	}

	rows, _ := d["components"].([]any)
	details.Components = make([]model.Component, 0, len(rows))
	for _, r := range rows {
		row, ok := asFields(r)
		if !ok {
			continue
		}
		c, err := Component(row)
		if err != nil {
			return nil, err
		}
		details.Components = append(details.Components, c)
	}
	return details, nil
}

// Component maps one component table row.
func Component(raw extract.Fields) (model.Component, error) {
	d := clone(raw)
	c := model.Component{
		Type:      str(d, "type"),
		BrandName: str(d, "brand_name"),
		ModelName: str(d, "model_name"),
		Added:     ParseComponentDate(str(d, "added")),
		Removed:   ParseComponentDate(str(d, "removed")),
	}
	if id := str(d, "id"); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return c, weberr.Scrape(weberr.ReasonLayoutChanged, fmt.Sprintf("component id %q", id), err)
		}
		c.ID = n
	}
	if dist := str(d, "distance"); dist != "" {
		m, err := ParseDistance(dist)
		if err != nil {
			return c, weberr.Scrape(weberr.ReasonLayoutChanged, "component distance", err)
		}
		c.Distance = math.Trunc(m)
	}
	return c, nil
}
