package sitethumbs

import (
	"net/http"
)

// Handler returns the preview server's routes. Build should have run first
// so the deploy directory is populated.
func (s *Site) Handler() http.Handler {
	if !s.routed {
		s.setupMiddleware()
		s.setupRoutes()
		s.routed = true
	}
	return s.Echo
}

// Start serves the deploy directory on Config.Addr until the server stops.
func (s *Site) Start() error {
	s.Handler()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Logger.Info("serving", "addr", s.Config.Addr, "deploy", s.Config.DeployDir)
	if err := s.Echo.Start(s.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Site) setupRoutes() {
	e := s.Echo
	e.GET("/_thumbnails/", s.handleThumbnails)
	e.GET("/sitemap-images.xml", s.handleImageSitemap)
	e.Static("/", s.Config.DeployDir)
}

// listThumbnails reads the catalog, if any. Without a catalog the listing
// is empty.
func (s *Site) listThumbnails() ([]Thumbnail, error) {
	if s.Catalog == nil {
		return nil, nil
	}
	return s.Catalog.ListThumbnails()
}
