package sitethumbs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// ThumbnailIndex lists catalogued thumbnails. The same entries are inlined
// as JSON for scripts through the tojson filter.
func ThumbnailIndex(thumbs []Thumbnail) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Thumbnails</title></head><body><h1>Thumbnails</h1><table><thead><tr><th>Image</th><th>Path</th><th>Size</th><th>Bytes</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, t := range thumbs {
			src := (&url.URL{Path: "/" + t.DeployPath}).EscapedPath()
			row := fmt.Sprintf(`<tr><td><img src="%s" width="%d" height="%d" alt=""></td><td>%s</td><td>%dx%d</td><td>%s</td></tr>`,
				templ.EscapeString(src), t.Width, t.Height,
				templ.EscapeString(t.DeployPath), t.Width, t.Height,
				humanize.Bytes(uint64(t.Size)))
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tbody></table><script type="application/json" id="thumbnails-data">`); err != nil {
			return err
		}
		if thumbs == nil {
			thumbs = []Thumbnail{}
		}
		if err := ToJSON(thumbs).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</script></body></html>`)
		return err
	})
}

// ErrorPage is the minimal page shown for failed preview requests.
func ErrorPage(code int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(fmt.Sprintf("%d %s", code, http.StatusText(code)))
		_, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body><h1>%s</h1><p><a href="/">Home</a></p></body></html>`, title, title)
		return err
	})
}
