package sitethumbs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"gopkg.in/yaml.v3"
)

const (
	// StagingDir holds generated artifacts inside the content root. It is
	// stripped from their deploy paths.
	StagingDir = ".thumbnails"

	// MetaFile is the per-directory metadata file.
	MetaFile = "nodemeta.yaml"
)

// NodeMeta is the metadata of a content directory. Keys other than
// thumbnails are kept in Values.
type NodeMeta struct {
	Thumbnails []ThumbnailOptions `yaml:"thumbnails"`
	Values     map[string]any     `yaml:",inline"`
}

// Node is a directory of the content tree.
type Node struct {
	Path      string // filesystem path
	RelPath   string // slash separated, "" for the root
	Parent    *Node
	Children  []*Node
	Resources []*Resource
	Meta      NodeMeta
}

func (n *Node) String() string {
	if n.RelPath == "" {
		return "/"
	}
	return n.RelPath
}

// Resource is a file of the content tree.
type Resource struct {
	Path string // filesystem path
	Node *Node

	deployPath string
}

// RelativeDeployPath is the slash separated path the resource is published
// at, relative to the deploy root.
func (r *Resource) RelativeDeployPath() string { return r.deployPath }

// SetRelativeDeployPath changes where the resource is published.
func (r *Resource) SetRelativeDeployPath(p string) { r.deployPath = p }

func (r *Resource) String() string { return r.deployPath }

// Tree is the content directory loaded into nodes and resources.
type Tree struct {
	Root string

	root      *Node
	nodes     map[string]*Node
	resources map[string]*Resource
}

// LoadTree walks root and builds the content tree. Hidden files and
// directories, including the staging directory, are skipped.
func LoadTree(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", abs)
	}

	t := &Tree{
		Root:      abs,
		nodes:     make(map[string]*Node),
		resources: make(map[string]*Resource),
	}
	t.root = &Node{Path: abs}
	t.nodes[""] = t.root

	type entry struct {
		path  string
		isDir bool
	}
	var (
		mu      sync.Mutex
		entries []entry
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == abs {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		mu.Lock()
		entries = append(entries, entry{path: p, isDir: d.IsDir()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	for _, e := range entries {
		rel, err := t.rel(e.path)
		if err != nil {
			return nil, err
		}
		if e.isDir {
			t.ensureNode(rel)
			continue
		}
		if path.Base(rel) == MetaFile {
			continue
		}
		t.addResource(e.path, rel)
	}

	if err := t.loadMeta(t.root, NodeMeta{}); err != nil {
		return nil, err
	}
	return t, nil
}

// loadMeta reads n's metadata file and resolves inheritance from the parent.
// A node without its own thumbnails key inherits the parent's list.
func (t *Tree) loadMeta(n *Node, parent NodeMeta) error {
	var own NodeMeta
	data, err := os.ReadFile(filepath.Join(n.Path, MetaFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &own); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Join(n.RelPath, MetaFile), err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read metadata: %w", err)
	}

	meta := NodeMeta{Thumbnails: parent.Thumbnails, Values: make(map[string]any, len(parent.Values)+len(own.Values))}
	for k, v := range parent.Values {
		meta.Values[k] = v
	}
	for k, v := range own.Values {
		meta.Values[k] = v
	}
	if own.Thumbnails != nil {
		meta.Thumbnails = own.Thumbnails
	}
	n.Meta = meta

	for _, c := range n.Children {
		if err := t.loadMeta(c, meta); err != nil {
			return err
		}
	}
	return nil
}

// Walk returns every node depth first, children in name order. The result
// is a snapshot: nodes added while iterating are not included.
func (t *Tree) Walk() []*Node {
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		out = append(out, n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.root)
	return out
}

// Node returns the node at the slash separated relative path, or nil.
func (t *Tree) Node(rel string) *Node {
	return t.nodes[rel]
}

// Resource returns the resource registered for the filesystem path, or nil.
func (t *Tree) Resource(p string) *Resource {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil
	}
	return t.resources[abs]
}

// Resources returns every resource of the tree in walk order.
func (t *Tree) Resources() []*Resource {
	var out []*Resource
	for _, n := range t.Walk() {
		out = append(out, n.Resources...)
	}
	return out
}

// AddResource registers a derived file inside the content root. Calling it
// again for the same path returns the existing resource. Nodes created for
// derived files carry no metadata.
func (t *Tree) AddResource(p string) (*Resource, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, err
	}
	if r, ok := t.resources[abs]; ok {
		return r, nil
	}
	rel, err := t.rel(abs)
	if err != nil {
		return nil, err
	}
	return t.addResource(abs, rel), nil
}

func (t *Tree) rel(p string) (string, error) {
	rel, err := filepath.Rel(t.Root, p)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside the content root", p)
	}
	return rel, nil
}

func (t *Tree) addResource(abs, rel string) *Resource {
	n := t.ensureNode(path.Dir(rel))
	r := &Resource{Path: abs, Node: n, deployPath: rel}
	n.Resources = append(n.Resources, r)
	sort.Slice(n.Resources, func(i, j int) bool { return n.Resources[i].Path < n.Resources[j].Path })
	t.resources[abs] = r
	return r
}

func (t *Tree) ensureNode(rel string) *Node {
	if rel == "." {
		rel = ""
	}
	if n, ok := t.nodes[rel]; ok {
		return n
	}
	parent := t.ensureNode(path.Dir(rel))
	n := &Node{
		Path:    filepath.Join(t.Root, filepath.FromSlash(rel)),
		RelPath: rel,
		Parent:  parent,
	}
	parent.Children = append(parent.Children, n)
	sort.Slice(parent.Children, func(i, j int) bool { return parent.Children[i].RelPath < parent.Children[j].RelPath })
	t.nodes[rel] = n
	return n
}
