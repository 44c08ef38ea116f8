package extract

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lildude/stravaweb/internal/weberr"
	"github.com/sirupsen/logrus"
)

// Challenge scrapes a challenge page. The React layout (a data-react-props
// blob) is tried first, then the older inline Strava.Models.Challenge object.
func Challenge(body []byte, challengeID int64, shareURL string, log logrus.FieldLogger) (Fields, error) {
	doc, err := parseDocument(body, "challenge")
	if err != nil {
		return nil, err
	}

	data, reactErr := reactChallenge(doc, log)
	if reactErr != nil {
		log.WithError(reactErr).Debug("react challenge layout not usable, trying legacy layout")
		var legacyErr error
		data, legacyErr = legacyChallenge(doc)
		if legacyErr != nil {
			return nil, weberr.Scrape(weberr.ReasonNoChallengeData, fmt.Sprintf("challenge %d", challengeID),
				fmt.Errorf("react: %v; legacy: %w", reactErr, legacyErr))
		}
	} else {
		data["share_url"] = shareURL
	}

	data["id"] = challengeID
	return data, nil
}

func reactChallenge(doc *goquery.Document, log logrus.FieldLogger) (Fields, error) {
	props, ok := doc.Find(`div[data-react-class="Show"]`).First().Attr("data-react-props")
	if !ok {
		return nil, fmt.Errorf("no react props")
	}

	// Attribute values arrive entity-decoded; raw newlines would be invalid
	// inside JSON strings.
	props = strings.NewReplacer("\u00a0", " ", "&nbsp;", " ", "\n", `\n`).Replace(props)

	var raw map[string]any
	if err := json.Unmarshal([]byte(props), &raw); err != nil {
		return nil, fmt.Errorf("decoding react props: %w", err)
	}

	data := Fields{}
	for k, v := range raw {
		data[k] = v
	}

	if sections, ok := raw["sections"].([]any); ok {
		for _, s := range sections {
			if digString(s, "title") != "Overview" {
				continue
			}
			content, _ := dig(s, "content").([]any)
			if len(content) == 0 {
				break
			}
			descHTML := strings.ReplaceAll(digString(content[0], "text"), "&nbsp;", "")
			if d, err := goquery.NewDocumentFromReader(strings.NewReader(descHTML)); err == nil {
				data["description"] = d.Text()
			}
			break
		}
	}

	data["name"] = digString(raw, "header", "name")
	data["subtitle"] = digString(raw, "header", "subtitle")
	data["teaser"] = digString(raw, "summary", "challenge", "title")
	data["badge_url"] = digString(raw, "header", "challengeLogoUrl")

	if m := challengeDates.FindStringSubmatch(digString(raw, "summary", "calendar", "title")); m != nil {
		data["start_date"], data["end_date"] = m[1], m[2]
	} else {
		log.Warn("failed to find challenge date range")
	}

	return data, nil
}

func legacyChallenge(doc *goquery.Document) (Fields, error) {
	var script string
	if found := scripts(doc, "Strava.Models.Challenge"); len(found) > 0 {
		script = found[0]
	} else {
		return nil, fmt.Errorf("no challenge script")
	}

	raw, ok := blob(challengeRegex, script)
	if !ok {
		return nil, fmt.Errorf("challenge object not matched")
	}

	var data Fields
	if err := decodeJS(html.UnescapeString(raw), &data); err != nil {
		return nil, fmt.Errorf("decoding challenge object: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("empty challenge object")
	}

	if desc := doc.Find("div#desc"); desc.Length() > 0 {
		data["description"] = desc.First().Text()
	}
	return data, nil
}
