package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lildude/stravaweb/internal/weberr"
)

// FeedCursor is the continuation marker taken from the last entry of a feed page.
type FeedCursor struct {
	Rank      float64
	UpdatedAt int64
}

// FeedPage is one page of the dashboard feed.
type FeedPage struct {
	Entries []Fields
	HasMore bool
	// Cursor is nil when the page had no entries carrying cursor data.
	Cursor *FeedCursor
}

// Feed decodes one page of the dashboard feed JSON.
func Feed(body []byte) (FeedPage, error) {
	var raw struct {
		Entries    []Fields `json:"entries"`
		Pagination *struct {
			HasMore bool `json:"hasMore"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return FeedPage{}, weberr.Scrape(weberr.ReasonInvalidJSON, "feed", err)
	}
	if raw.Pagination == nil {
		return FeedPage{}, weberr.Scrape(weberr.ReasonInvalidJSON, "feed has no pagination", nil)
	}

	page := FeedPage{Entries: raw.Entries, HasMore: raw.Pagination.HasMore}
	if n := len(raw.Entries); n > 0 {
		last := raw.Entries[n-1]
		rank, okRank := dig(map[string]any(last), "cursorData", "rank").(float64)
		updated, okUpdated := dig(map[string]any(last), "cursorData", "updated_at").(float64)
		if okRank && okUpdated {
			page.Cursor = &FeedCursor{Rank: rank, UpdatedAt: int64(updated)}
		}
	}
	if page.HasMore && page.Cursor == nil {
		return FeedPage{}, weberr.Scrape(weberr.ReasonLayoutChanged, "feed has more entries but no cursor", nil)
	}
	return page, nil
}

// FollowPage is one page of an athlete's followers or following list.
type FollowPage struct {
	Athletes []Fields
	// Next is the site-relative URL of the next page, empty on the last page.
	Next string
}

// FollowList scrapes one page of a follow list.
func FollowList(body []byte) (FollowPage, error) {
	doc, err := parseDocument(body, "follow list")
	if err != nil {
		return FollowPage{}, err
	}

	page := FollowPage{Athletes: []Fields{}}
	doc.Find("li[data-athlete-id]").Each(func(_ int, li *goquery.Selection) {
		id, err := strconv.ParseInt(li.AttrOr("data-athlete-id", ""), 10, 64)
		if err != nil {
			return
		}
		a := Fields{"id": id}
		if name := li.Find(".athlete-name, a.minimal"); name.Length() > 0 {
			a["name"] = text(name.First())
			if href, ok := name.First().Attr("href"); ok {
				a["url"] = href
			}
		}
		if img := li.Find("img.avatar-img"); img.Length() > 0 {
			a["avatar_url"] = img.First().AttrOr("src", "")
		}
		if loc := li.Find(".location"); loc.Length() > 0 {
			a["location"] = text(loc.First())
		}
		page.Athletes = append(page.Athletes, a)
	})

	next := doc.Find(`.pagination a[rel="next"], .pagination .next_page a`).First()
	if href, ok := next.Attr("href"); ok && !strings.HasPrefix(href, "#") {
		page.Next = href
	}
	return page, nil
}

// Kudos decodes the kudos JSON of an activity.
func Kudos(body []byte) (Fields, error) {
	var k Fields
	if err := json.Unmarshal(body, &k); err != nil {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "kudos", err)
	}
	if k == nil {
		return nil, weberr.Scrape(weberr.ReasonInvalidJSON, "kudos is empty", nil)
	}
	return k, nil
}
