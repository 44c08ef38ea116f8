package extract

import "github.com/lildude/stravaweb/internal/weberr"

// CSRF reads the csrf-param and csrf-token <meta> tags from a document head.
func CSRF(body []byte) (param, token string, err error) {
	doc, err := parseDocument(body, "csrf")
	if err != nil {
		return "", "", err
	}

	head := doc.Find("head")
	param = head.Find(`meta[name="csrf-param"]`).AttrOr("content", "")
	token = head.Find(`meta[name="csrf-token"]`).AttrOr("content", "")
	if param == "" || token == "" {
		return "", "", weberr.Scrape(weberr.ReasonCSRFNotFound, "", nil)
	}
	return param, token, nil
}
