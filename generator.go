package sitethumbs

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Generator creates thumbnails for the resources of a content tree.
type Generator struct {
	Tree     *Tree
	Defaults ThumbnailOptions
	Logger   *log.Logger
	Catalog  *Catalog // optional

	written int
	bytes   int64
}

// NewGenerator returns a Generator over tree. defaults are the site-wide
// options, usually SiteConfig.ThumbnailDefaults.
func NewGenerator(tree *Tree, defaults ThumbnailOptions, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		Tree:     tree,
		Defaults: Merge(BuiltinOptions(), defaults),
		Logger:   logger.With("component", "thumbnails"),
	}
}

// ShouldSkip reports whether target exists and is not older than source.
func ShouldSkip(source, target string) bool {
	ti, err := os.Stat(target)
	if err != nil {
		return false
	}
	si, err := os.Stat(source)
	if err != nil {
		return false
	}
	return !ti.ModTime().Before(si.ModTime())
}

// Thumb generates the thumbnail of res described by p. The artifact is
// staged under StagingDir and registered in the tree with the staging
// segment stripped from its deploy path. Resources whose name already
// carries the prefix are left alone.
func (g *Generator) Thumb(res *Resource, p Policy) error {
	deploy := res.RelativeDeployPath()
	name := path.Base(deploy)
	if strings.HasPrefix(name, p.Prefix) {
		return nil
	}

	rel := path.Join(StagingDir, path.Dir(deploy), p.Prefix+name)
	target := filepath.Join(g.Tree.Root, filepath.FromSlash(rel))
	thumb, err := g.Tree.AddResource(target)
	if err != nil {
		return err
	}
	thumb.SetRelativeDeployPath(strings.Replace(thumb.RelativeDeployPath(), StagingDir+"/", "", 1))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}
	if ShouldSkip(res.Path, target) {
		return nil
	}
	g.Logger.Debug("making thumbnail", "resource", res, "target", thumb)

	data, err := os.ReadFile(res.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", res, err)
	}
	meta, out, err := processImage(bytes.NewReader(data), p)
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", res, err)
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	g.written++
	g.bytes += int64(len(out))
	g.Logger.Debug("resized", "resource", res, "width", meta.Width, "height", meta.Height, "size", humanize.Bytes(uint64(len(out))))

	if g.Catalog != nil {
		meta.Target = target
		meta.Source = res.Path
		meta.DeployPath = thumb.RelativeDeployPath()
		meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
		if err := g.Catalog.SaveThumbnail(meta); err != nil {
			return fmt.Errorf("catalog thumbnail: %w", err)
		}
	}
	return nil
}

// BeginSite thumbnails every resource matched by the thumbnails entries of
// its node. Invalid entries are logged and skipped; image errors abort.
func (g *Generator) BeginSite() error {
	g.written, g.bytes = 0, 0
	for _, node := range g.Tree.Walk() {
		if len(node.Meta.Thumbnails) == 0 {
			continue
		}
		resources := append([]*Resource(nil), node.Resources...)
		for i, entry := range node.Meta.Thumbnails {
			p, err := ParsePolicy(entry, g.Defaults)
			if err != nil {
				g.Logger.Error("skipping thumbnails entry", "node", node, "entry", i, "err", err)
				continue
			}
			for _, res := range resources {
				if !p.Matches(filepath.ToSlash(res.Path)) {
					continue
				}
				if err := g.Thumb(res, p); err != nil {
					return err
				}
			}
		}
	}
	if g.written > 0 {
		g.Logger.Info("thumbnails written", "count", g.written, "size", humanize.Bytes(uint64(g.bytes)))
	}
	return nil
}

// Written returns how many thumbnails the last BeginSite wrote.
func (g *Generator) Written() int { return g.written }
