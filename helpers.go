package sitethumbs

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
)

var scriptEscaper = strings.NewReplacer(
	"&", "\\u0026",
	"'", "\\u0027",
	"<", "\\u003c",
	">", "\\u003e",
)

// JSONString serializes v to JSON and escapes the characters that could
// close a <script> element or an HTML attribute it is inlined in.
func JSONString(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return scriptEscaper.Replace(strings.TrimSuffix(buf.String(), "\n")), nil
}

// ToJSON is the tojson template filter: v rendered by JSONString as markup
// that templ writes without further escaping.
func ToJSON(v any) templ.Component {
	s, err := JSONString(v)
	return templ.Raw(s, err)
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
