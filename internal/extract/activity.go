package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lildude/stravaweb/internal/weberr"
	"github.com/sirupsen/logrus"
)

// ActivityList decodes one page of the training activities JSON endpoint. An
// empty result is the pagination termination signal, not an error.
func ActivityList(body []byte) ([]Fields, error) {
	var page map[string]json.RawMessage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "activity list", err)
	}
	raw, ok := page["models"]
	if !ok {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "activity list has no models", nil)
	}
	var models []Fields
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "activity list models", err)
	}
	return models, nil
}

// ActivityDetail scrapes an activity page for the fields the list endpoint
// does not carry. Missing sub-structures are logged and left out.
func ActivityDetail(body []byte, log logrus.FieldLogger) (Fields, error) {
	doc, err := parseDocument(body, "activity")
	if err != nil {
		return nil, err
	}

	ret := Fields{}

	summary := doc.Find("div.activity-summary-container").First()
	if summary.Length() > 0 {
		if name := summary.Find("h1.activity-name"); name.Length() > 0 {
			ret["name"] = text(name.First())
		}
		if desc := summary.Find("div.activity-description"); desc.Length() > 0 {
			ret["description"] = text(desc.First())
		}
		if device := summary.Find("div.device"); device.Length() > 0 {
			ret["device_name"] = text(device.First())
		}
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		script := s.Text()
		switch {
		case strings.Contains(script, "var pageView;"):
			m := pageViewRegex.FindStringSubmatch(script)
			if m == nil {
				log.Warn("failed to extract manual and type data from page")
				return
			}
			ret["manual"] = strings.EqualFold(m[1], "manual")
			ret["type"] = m[2]

		case strings.Contains(script, "var photosJson"):
			if photos, ok := photoBlob(script, log); ok {
				ret["photos"] = photos
			}
		}
	})

	return ret, nil
}

// photoBlob pulls the photosJson array shared by activity and athlete pages.
func photoBlob(script string, log logrus.FieldLogger) ([]any, bool) {
	raw, ok := blob(photosRegex, script)
	if !ok {
		log.Warn("failed to extract photo data from page")
		return nil, false
	}
	var photos []any
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		log.WithError(err).Warn("failed to parse extracted photo data")
		return nil, false
	}
	return photos, true
}
