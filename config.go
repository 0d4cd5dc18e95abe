package sitethumbs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// SiteConfig holds all configuration for a site build.
type SiteConfig struct {
	ContentDir  string `mapstructure:"content_dir"`  // default "content"
	DeployDir   string `mapstructure:"deploy_dir"`   // default "deploy"
	CatalogPath string `mapstructure:"catalog_path"` // SQLite path; empty disables the catalog
	URL         string `mapstructure:"url"`          // canonical URL used in the image sitemap
	Addr        string `mapstructure:"addr"`         // preview listen address (default ":8080")
	LogLevel    string `mapstructure:"log_level"`    // default "info"

	// Thumbnails are the site-wide defaults merged under every node entry.
	Thumbnails ThumbnailOptions `mapstructure:"thumbnails"`
}

func (c *SiteConfig) setDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DeployDir == "" {
		c.DeployDir = "deploy"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8080"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ThumbnailDefaults returns the built-in defaults with the site's
// thumbnails section merged over them.
func (c SiteConfig) ThumbnailDefaults() ThumbnailOptions {
	return Merge(BuiltinOptions(), c.Thumbnails)
}

// LoadConfig reads a site.yaml file. Environment variables prefixed with
// SITETHUMBS_ override file values (SITETHUMBS_DEPLOY_DIR, ...). A missing
// file is not an error when path is empty. Relative directories are taken
// relative to the file that was read.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("site")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SITETHUMBS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("content_dir", "content")
	v.SetDefault("deploy_dir", "deploy")
	v.SetDefault("catalog_path", "")
	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")

	base := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		base = filepath.Dir(v.ConfigFileUsed())
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.setDefaults()
	if base != "" {
		cfg.resolvePaths(base)
	}
	return cfg, nil
}

// resolvePaths makes relative directories relative to the config file's
// directory instead of the working directory.
func (c *SiteConfig) resolvePaths(base string) {
	for _, p := range []*string{&c.ContentDir, &c.DeployDir, &c.CatalogPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLogger replaces the logger built from SiteConfig.LogLevel.
func WithLogger(l *log.Logger) Option {
	return func(s *Site) {
		s.Logger = l
	}
}

// WithCatalog uses an already opened catalog instead of CatalogPath.
// The site does not close it.
func WithCatalog(c *Catalog) Option {
	return func(s *Site) {
		s.Catalog = c
		s.ownCatalog = false
	}
}
