package sitethumbs

import (
	"encoding/xml"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc    string         `xml:"loc"`
	Images []sitemapImage `xml:"image:image"`
}

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

// imageSitemap groups thumbnails by the page directory they are published in.
func imageSitemap(base string, thumbs []Thumbnail) sitemapURLSet {
	set := sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSImage: "http://www.google.com/schemas/sitemap-image/1.1",
	}
	index := make(map[string]int)
	for _, t := range thumbs {
		dir := path.Dir(t.DeployPath)
		if dir == "." {
			dir = ""
		}
		i, ok := index[dir]
		if !ok {
			loc := BuildURL(base, dir)
			if dir != "" {
				loc += "/"
			}
			set.URLs = append(set.URLs, sitemapURL{Loc: loc})
			i = len(set.URLs) - 1
			index[dir] = i
		}
		set.URLs[i].Images = append(set.URLs[i].Images, sitemapImage{Loc: BuildURL(base, t.DeployPath)})
	}
	return set
}

func (s *Site) renderImageSitemap(c echo.Context, thumbs []Thumbnail) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(imageSitemap(s.Config.URL, thumbs))
}
