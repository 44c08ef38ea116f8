package webclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/lildude/stravaweb/internal/model"
	"github.com/lildude/stravaweb/internal/weberr"
)

// ExportFile is a downloaded activity or route file. Callers must close
// Content.
type ExportFile struct {
	Filename string
	Content  io.ReadCloser
}

// GetActivityData downloads an activity in the given format.
//
// Uploads from old mobile apps have a JSON blob as their original file. When
// the original is requested and JSON comes back, the download is repeated
// once in jsonFmt, unless jsonFmt is itself FormatOriginal. An empty jsonFmt
// means GPX.
func (c *Client) GetActivityData(ctx context.Context, id int64, format, jsonFmt model.DataFormat) (*ExportFile, error) {
	if format == "" {
		format = model.FormatOriginal
	}
	if jsonFmt == "" {
		jsonFmt = model.FormatGPX
	}

	c.log.WithField("activity_id", id).WithField("format", format).Debug("getting activity data")
	s, err := c.sess.Stream(ctx, fmt.Sprintf("activities/%d/export_%s", id, format))
	if err != nil {
		return nil, err
	}
	// Manual activities redirect back to the activity page.
	if s.StatusCode != http.StatusOK {
		s.Body.Close()
		return nil, weberr.Remote(s.StatusCode, "download activity "+itoa(id))
	}

	if format == model.FormatOriginal && jsonFmt != model.FormatOriginal && isJSON(s.Header) {
		s.Body.Close()
		c.log.WithField("activity_id", id).WithField("format", jsonFmt).Info("original file is JSON, downloading again")
		return c.GetActivityData(ctx, id, jsonFmt, model.FormatOriginal)
	}
	return exportFile(s.Header, s.Body, itoa(id), format), nil
}

// GetRouteData downloads a route. Routes have no original file, so
// FormatOriginal is served as GPX.
func (c *Client) GetRouteData(ctx context.Context, id int64, format model.DataFormat) (*ExportFile, error) {
	if format == "" || format == model.FormatOriginal {
		format = model.FormatGPX
	}

	s, err := c.sess.Stream(ctx, fmt.Sprintf("routes/%d/export_%s", id, format))
	if err != nil {
		return nil, err
	}
	if s.StatusCode != http.StatusOK {
		s.Body.Close()
		return nil, weberr.Remote(s.StatusCode, "download route "+itoa(id))
	}
	return exportFile(s.Header, s.Body, itoa(id), format), nil
}

func isJSON(h http.Header) bool {
	mt, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	return err == nil && strings.EqualFold(mt, "application/json")
}

// exportFile names the download after its Content-Disposition, or id. Strava
// strips dots from the names it suggests, so a dot can only start the
// extension.
func exportFile(h http.Header, body io.ReadCloser, id string, format model.DataFormat) *ExportFile {
	name := ""
	if _, params, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	if name == "" {
		name = id
	}
	if !strings.Contains(name, ".") {
		name += "." + format.Extension()
	}
	return &ExportFile{Filename: name, Content: body}
}
