package sitethumbs

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Site) handleThumbnails(c echo.Context) error {
	thumbs, err := s.listing.Thumbnails()
	if err != nil {
		return err
	}
	return Render(c, ThumbnailIndex(thumbs))
}

func (s *Site) handleImageSitemap(c echo.Context) error {
	thumbs, err := s.listing.Thumbnails()
	if err != nil {
		return err
	}
	return s.renderImageSitemap(c, thumbs)
}

func (s *Site) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		s.Logger.Error("server error", "uri", c.Request().RequestURI, "err", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = RenderStatus(c, code, ErrorPage(code))
}
