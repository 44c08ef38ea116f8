package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Athlete scrapes an athlete profile page.
//
// For the logged-in athlete (current) the page carries a rich CurrentAthlete
// object. For anyone else, or when that object is missing, identity falls back
// to the public profile heading. Non-current athletes always get "bikes" and
// "shoes" stub lists from the sidebar, possibly empty, so a lazy loader that
// completes gear never has to come back to this page.
func Athlete(body []byte, athleteID int64, current bool, log logrus.FieldLogger) (Fields, error) {
	doc, err := parseDocument(body, "athlete")
	if err != nil {
		return nil, err
	}

	ret := Fields{
		"photos":     []any{},
		"challenges": []any{},
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()
		switch {
		case current && strings.Contains(script, "Strava.Models.CurrentAthlete"):
			raw, ok := blob(athleteRegex, script)
			if !ok {
				log.Error("failed to extract detailed athlete data")
				return true
			}
			var data map[string]any
			if err := decodeJS(raw, &data); err != nil {
				log.WithError(err).Error("failed to parse extracted athlete data")
				return true
			}
			for k, v := range data {
				ret[k] = v
			}

		case strings.Contains(script, "var trophiesAnalyticsProperties"):
			raw, ok := blob(challengeIDsRegex, script)
			if !ok {
				log.Error("failed to extract completed challenges")
				return true
			}
			var ids []any
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				log.WithError(err).Error("failed to parse extracted challenge data")
				return true
			}
			ret["challenges"] = ids

		case strings.Contains(script, "var photosJson"):
			photos, ok := photoBlob(script, log)
			if !ok {
				return false
			}
			ret["photos"] = photos
		}
		return true
	})

	if _, ok := ret["id"]; !ok {
		ret["id"] = athleteID
		// There are multiple headings depending on the level of access.
		doc.Find("div.profile-heading").Each(func(_ int, heading *goquery.Selection) {
			if name := heading.Find("h1.athlete-name"); name.Length() > 0 {
				ret["name"] = text(name.First())
			}
			if loc := heading.Find("div.location"); loc.Length() > 0 {
				parts := strings.Split(text(loc.First()), ",")
				for i, k := range []string{"city", "state", "country"} {
					if i < len(parts) {
						ret[k] = strings.TrimSpace(parts[i])
					}
				}
			}
			if img := heading.Find("img.avatar-img"); img.Length() > 0 {
				ret["profile"] = img.First().AttrOr("src", "")
			}
		})
	}

	if !current {
		bikes, shoes := []any{}, []any{}
		doc.Find("div.section.stats.gear").Each(func(_ int, gear *goquery.Selection) {
			var isBike bool
			switch {
			case gear.HasClass("bikes"):
				isBike = true
			case gear.HasClass("shoes"):
			default:
				return
			}

			gear.Find("table tr").Each(func(_ int, row *goquery.Selection) {
				cells := row.Find("td")
				if cells.Length() < 2 {
					return
				}
				name := cells.Eq(0)
				stub := Fields{
					"name":     text(name),
					"distance": text(cells.Eq(1)),
				}
				if href, ok := name.Find("a").Attr("href"); ok && isBike {
					stub["id"] = "b" + lastSegment(href)
				}
				if isBike {
					bikes = append(bikes, stub)
				} else {
					shoes = append(shoes, stub)
				}
			})
		})
		ret["bikes"] = bikes
		ret["shoes"] = shoes
	}

	return ret, nil
}
