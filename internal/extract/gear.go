package extract

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"
	"github.com/lildude/stravaweb/internal/weberr"
)

// bikeAttributes are the values of the gear details table in display order.
var bikeAttributes = []string{"frame_type", "brand_name", "model_name", "weight"}

// BikeDetail scrapes a bike page: the positional gear attributes table plus
// the component table. Cell text is returned raw; units are the mapper's job.
func BikeDetail(body []byte) (Fields, error) {
	doc, err := parseDocument(body, "bike")
	if err != nil {
		return nil, err
	}

	gearTable := doc.Find("div.gear-details table").First()
	if gearTable.Length() == 0 {
		return nil, weberr.Scrape(weberr.ReasonLayoutChanged, "bike details table not found", nil)
	}

	ret := Fields{}

	// Labels and values alternate, values sit in the odd cells.
	cells := gearTable.Find("td")
	for i, k := 1, 0; i < cells.Length() && k < len(bikeAttributes); i, k = i+2, k+1 {
		ret[bikeAttributes[k]] = text(cells.Eq(i))
	}

	var components *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if t.Find("thead").Length() > 0 {
			components = t
			return false
		}
		return true
	})
	if components == nil {
		return nil, weberr.Scrape(weberr.ReasonLayoutChanged, "bike component table not found", nil)
	}

	rows := []any{}
	components.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		// Guards against "No active components" and other messages.
		if cells.Length() < 7 {
			return
		}

		c := Fields{
			"type":       text(cells.Eq(0)),
			"brand_name": text(cells.Eq(1)),
			"model_name": text(cells.Eq(2)),
			"added":      text(cells.Eq(3)),
			"removed":    text(cells.Eq(4)),
			"distance":   text(cells.Eq(5)),
		}
		cells.Eq(6).Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if text(a) != "Delete" {
				return true
			}
			c["id"] = lastSegment(a.AttrOr("href", ""))
			return false
		})
		rows = append(rows, c)
	})
	ret["components"] = rows

	return ret, nil
}

// GearList decodes the JSON array served by the athlete bike and shoe endpoints.
func GearList(body []byte) ([]Fields, error) {
	var gear []Fields
	if err := json.Unmarshal(body, &gear); err != nil {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "gear list", err)
	}
	return gear, nil
}
