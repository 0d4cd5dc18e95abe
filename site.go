// Package sitethumbs generates image thumbnails for a static site.
//
// Content directories opt in through a thumbnails list in their
// nodemeta.yaml; site.yaml may provide defaults for every entry:
//
//	thumbnails:
//	  - width: 50
//	    prefix: thumbs1_
//	    include: ['*.png', '*.jpg']
//	  - larger: 100
//	    smaller: 60
//	    crop_type: center
//	    prefix: thumbs2_
//	    include: ['*.jpg']
//
// Only one of the width/height and larger/smaller families may be used per
// entry. larger/smaller keep the image orientation. When both dimensions are
// known the resized image is cropped at the crop_type anchor.
package sitethumbs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// Site wires the content tree, the thumbnail generator and the optional
// catalog together for one site directory.
type Site struct {
	Config  SiteConfig
	Logger  *log.Logger
	Tree    *Tree
	Catalog *Catalog
	Echo    *echo.Echo

	listing    *ListingCache
	ownCatalog bool
	routed     bool
}

// New creates a Site with the given configuration.
func New(cfg SiteConfig, opts ...Option) *Site {
	cfg.setDefaults()

	s := &Site{
		Config:     cfg,
		Echo:       echo.New(),
		ownCatalog: true,
	}
	s.listing = NewListingCache(listingTTL, s.listThumbnails)
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		logger, err := NewLogger(cfg.LogLevel, nil)
		if err != nil {
			logger = log.Default()
			logger.Warn("falling back to info logging", "err", err)
		}
		s.Logger = logger
	}
	return s
}

// Build loads the content tree, generates thumbnails and publishes every
// resource into the deploy directory.
func (s *Site) Build() error {
	if s.Catalog == nil && s.Config.CatalogPath != "" {
		c, err := OpenCatalog(s.Config.CatalogPath)
		if err != nil {
			return fmt.Errorf("sitethumbs: open catalog: %w", err)
		}
		s.Catalog = c
		s.ownCatalog = true
	}

	tree, err := LoadTree(s.Config.ContentDir)
	if err != nil {
		return fmt.Errorf("sitethumbs: %w", err)
	}
	s.Tree = tree

	gen := NewGenerator(tree, s.Config.ThumbnailDefaults(), s.Logger)
	gen.Catalog = s.Catalog
	if err := gen.BeginSite(); err != nil {
		return fmt.Errorf("sitethumbs: %w", err)
	}

	if s.Catalog != nil {
		if n, err := s.Catalog.Prune(); err != nil {
			return fmt.Errorf("sitethumbs: prune catalog: %w", err)
		} else if n > 0 {
			s.Logger.Info("pruned catalog", "removed", n)
		}
		s.listing.Invalidate()
	}

	return s.Publish()
}

// Publish copies every resource of the tree to its deploy path, skipping
// files whose deployed copy is up to date.
func (s *Site) Publish() error {
	if s.Tree == nil {
		return fmt.Errorf("sitethumbs: publish before build")
	}
	copied := 0
	for _, r := range s.Tree.Resources() {
		dst := filepath.Join(s.Config.DeployDir, filepath.FromSlash(r.RelativeDeployPath()))
		if ShouldSkip(r.Path, dst) {
			continue
		}
		if err := copyFile(r.Path, dst); err != nil {
			return fmt.Errorf("sitethumbs: publish %s: %w", r, err)
		}
		copied++
	}
	s.Logger.Info("published", "copied", copied, "deploy", s.Config.DeployDir)
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Close cleans up resources. Call this when the site is no longer used.
func (s *Site) Close() error {
	if s.Catalog != nil && s.ownCatalog {
		return s.Catalog.Close()
	}
	return nil
}
