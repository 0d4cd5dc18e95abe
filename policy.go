package sitethumbs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Policy validation errors. BeginSite logs them and skips the entry.
var (
	ErrIncludeMissing   = errors.New("include is not set")
	ErrUnknownCropType  = errors.New("unknown crop_type")
	ErrNoDimension      = errors.New("at least one of width, height, larger, or smaller must be set")
	ErrMixedDimensions  = errors.New("width/height cannot be combined with larger/smaller")
	ErrInvalidDimension = errors.New("dimensions must be positive")
	ErrBadPattern       = errors.New("invalid include pattern")
)

// DefaultPrefix is prepended to the source name when no prefix is configured.
const DefaultPrefix = "thumb_"

// ThumbnailOptions is a thumbnail entry as written in site.yaml or
// nodemeta.yaml. Nil fields are absent and fall back to the defaults.
type ThumbnailOptions struct {
	Width    *int     `yaml:"width" mapstructure:"width"`
	Height   *int     `yaml:"height" mapstructure:"height"`
	Larger   *int     `yaml:"larger" mapstructure:"larger"`
	Smaller  *int     `yaml:"smaller" mapstructure:"smaller"`
	CropType *string  `yaml:"crop_type" mapstructure:"crop_type"`
	Prefix   *string  `yaml:"prefix" mapstructure:"prefix"`
	Include  []string `yaml:"include" mapstructure:"include"`
}

// BuiltinOptions returns the defaults used when site.yaml has no thumbnails
// section: no dimensions, topleft cropping and the "thumb_" prefix.
func BuiltinOptions() ThumbnailOptions {
	crop := string(CropTopLeft)
	prefix := DefaultPrefix
	return ThumbnailOptions{CropType: &crop, Prefix: &prefix}
}

// Merge returns base with every field that is present in override replaced.
func Merge(base, override ThumbnailOptions) ThumbnailOptions {
	out := base
	if override.Width != nil {
		out.Width = override.Width
	}
	if override.Height != nil {
		out.Height = override.Height
	}
	if override.Larger != nil {
		out.Larger = override.Larger
	}
	if override.Smaller != nil {
		out.Smaller = override.Smaller
	}
	if override.CropType != nil {
		out.CropType = override.CropType
	}
	if override.Prefix != nil {
		out.Prefix = override.Prefix
	}
	if override.Include != nil {
		out.Include = override.Include
	}
	return out
}

// CropType anchors the crop box inside the resized image.
type CropType string

const (
	CropTopLeft     CropType = "topleft"
	CropCenter      CropType = "center"
	CropBottomRight CropType = "bottomright"
)

// ParseCropType validates a crop_type value.
func ParseCropType(s string) (CropType, error) {
	switch c := CropType(s); c {
	case CropTopLeft, CropCenter, CropBottomRight:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCropType, s)
	}
}

// SizingMode is either Absolute or OrientationAware.
type SizingMode interface {
	// Target returns the two requested dimensions, 0 meaning unset.
	Target() (dim1, dim2 int)
	// PreserveOrientation reports whether dim1/dim2 follow the image's
	// long/short edge instead of its width/height.
	PreserveOrientation() bool
}

// Absolute sizes a thumbnail by fixed width and height.
type Absolute struct {
	Width  int
	Height int
}

func (a Absolute) Target() (int, int)       { return a.Width, a.Height }
func (a Absolute) PreserveOrientation() bool { return false }

// OrientationAware sizes a thumbnail by its longer and shorter edge.
type OrientationAware struct {
	Larger  int
	Smaller int
}

func (o OrientationAware) Target() (int, int)       { return o.Larger, o.Smaller }
func (o OrientationAware) PreserveOrientation() bool { return true }

// fnmatchQuoter escapes the glob syntax that fnmatch treats literally:
// brace alternation and the backslash escape.
var fnmatchQuoter = strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`)

// Policy is a validated thumbnail entry.
type Policy struct {
	Mode    SizingMode
	Crop    CropType
	Prefix  string
	Include []string

	patterns []glob.Glob
}

// Matches reports whether path matches any include pattern. Like fnmatch,
// a "*" also matches path separators.
func (p Policy) Matches(path string) bool {
	for _, g := range p.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// ParsePolicy merges entry over defaults and validates the result.
func ParsePolicy(entry, defaults ThumbnailOptions) (Policy, error) {
	if entry.Include == nil {
		return Policy{}, ErrIncludeMissing
	}
	opts := Merge(defaults, entry)
	opts.Include = entry.Include

	crop := CropTopLeft
	if opts.CropType != nil {
		c, err := ParseCropType(*opts.CropType)
		if err != nil {
			return Policy{}, err
		}
		crop = c
	}

	absolute := opts.Width != nil || opts.Height != nil
	relative := opts.Larger != nil || opts.Smaller != nil
	if !absolute && !relative {
		return Policy{}, ErrNoDimension
	}
	if absolute && relative {
		return Policy{}, ErrMixedDimensions
	}

	var mode SizingMode
	if absolute {
		w, err := dimension("width", opts.Width)
		if err != nil {
			return Policy{}, err
		}
		h, err := dimension("height", opts.Height)
		if err != nil {
			return Policy{}, err
		}
		mode = Absolute{Width: w, Height: h}
	} else {
		l, err := dimension("larger", opts.Larger)
		if err != nil {
			return Policy{}, err
		}
		s, err := dimension("smaller", opts.Smaller)
		if err != nil {
			return Policy{}, err
		}
		mode = OrientationAware{Larger: l, Smaller: s}
	}

	prefix := DefaultPrefix
	if opts.Prefix != nil {
		prefix = *opts.Prefix
	}

	patterns := make([]glob.Glob, 0, len(opts.Include))
	for _, inc := range opts.Include {
		g, err := glob.Compile(fnmatchQuoter.Replace(inc))
		if err != nil {
			return Policy{}, fmt.Errorf("%w %q: %v", ErrBadPattern, inc, err)
		}
		patterns = append(patterns, g)
	}

	return Policy{
		Mode:     mode,
		Crop:     crop,
		Prefix:   prefix,
		Include:  opts.Include,
		patterns: patterns,
	}, nil
}

func dimension(name string, v *int) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v <= 0 {
		return 0, fmt.Errorf("%w: %s=%d", ErrInvalidDimension, name, *v)
	}
	return *v, nil
}
