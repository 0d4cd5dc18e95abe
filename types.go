package sitethumbs

// Thumbnail describes a generated artifact as recorded in the catalog.
type Thumbnail struct {
	Target      string `json:"-"` // staged file under .thumbnails
	Source      string `json:"-"`
	DeployPath  string `json:"path"` // published path, relative to the deploy root
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Size        int    `json:"bytes"`
	GeneratedAt string `json:"generated_at"`
}
