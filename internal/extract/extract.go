// Package extract locates data embedded in Strava web pages and returns it as
// flat field mappings.
//
// Each extractor targets exactly one page or response shape and never builds
// canonical entities; that is the mapper's job. Strategies, in order of
// preference: decode a JSON body, regex-isolate a JavaScript literal inside a
// <script> tag and decode it, or walk the DOM for stable classes and tables.
package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lildude/stravaweb/internal/weberr"
	"github.com/titanous/json5"
)

// Fields is a flat mapping of raw field names to scalars, lists or nested maps
// exactly as the page presented them.
type Fields map[string]any

var (
	photosRegex       = regexp.MustCompile(`var\s+photosJson\s*=\s*(\[.*\]);`)
	athleteRegex      = regexp.MustCompile(`var\s+currentAthlete\s*=\s*new\s+Strava.Models.CurrentAthlete\(({.*})\);`)
	challengeIDsRegex = regexp.MustCompile(`var\s+trophiesAnalyticsProperties\s*=\s*{.*challenge_id:\s*\[(\[[\d\s,]*\])\]`)
	pageViewRegex     = regexp.MustCompile(`pageView\s*=\s*new\s+Strava.Labs.Activities.Pages.(\S+)PageView\(["']?\d+["']?,\s*["']([^"']+)`)
	challengeRegex    = regexp.MustCompile(`var\s+challenge\s*=\s*new\s+Strava.Models.Challenge\(({.*})\);`)
	challengeDates    = regexp.MustCompile(`(\S{3} \d{2}, \d{4}) to (\S{3} \d{2}, \d{4})`)
)

func parseDocument(body []byte, what string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, weberr.Scrape(weberr.ReasonLayoutChanged, "parsing "+what+" html", err)
	}
	return doc, nil
}

// scripts returns the text of every <script> element containing marker.
func scripts(doc *goquery.Document, marker string) []string {
	var out []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.Contains(text, marker) {
			out = append(out, text)
		}
	})
	return out
}

// blob returns the first capture group of re in text.
func blob(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// decodeJS decodes a JavaScript object literal. Page-embedded literals are
// usually strict JSON, but json5 also tolerates unquoted keys and trailing commas.
func decodeJS(s string, v any) error {
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	return json5.Unmarshal([]byte(s), v)
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// lastSegment returns the final path segment of a URL or path.
func lastSegment(href string) string {
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}

// dig walks nested maps by key and returns the value found, or nil.
func dig(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func digString(v any, keys ...string) string {
	s, _ := dig(v, keys...).(string)
	return s
}
