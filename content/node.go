// Package content models the published-content tree that the rest of pubcontent
// reads from: nodes, typed properties, media values, stores and URL resolution.
package content

import (
	"sort"
	"strings"
)

// Document type aliases the helpers look for at the top of the tree.
const (
	WebsiteType      = "Website"
	SiteSettingsType = "siteSettings"
)

// Node is a published content node.
type Node struct {
	ID        int
	ParentID  int // 0 for top-level nodes
	SortOrder int
	Name      string
	DocType   string

	// URLSegment overrides the slug derived from Name.
	URLSegment string
	// CultureSegments maps a lower-cased culture to a variant URL segment.
	CultureSegments map[string]string

	Properties []Property
	Children   []*Node
}

// Property is a single named value on a node.
type Property struct {
	Alias       string
	EditorAlias string
	Value       any // string, []string, Image or []Image
}

// Kind returns the editor kind of the property.
func (p Property) Kind() EditorKind {
	return KindOf(p.EditorAlias)
}

// Image is a media item with crop metadata.
type Image struct {
	Name   string `json:"name,omitempty" yaml:"name"`
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width,omitempty" yaml:"width"`
	Height int    `json:"height,omitempty" yaml:"height"`
	Crops  []Crop `json:"crops,omitempty" yaml:"crops"`
}

// Crop is a named, pre-rendered crop of an Image.
type Crop struct {
	Alias  string `json:"alias" yaml:"alias"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	URL    string `json:"url,omitempty" yaml:"url"`
}

// Crop returns the crop with the given alias.
func (img Image) Crop(alias string) (Crop, bool) {
	for _, c := range img.Crops {
		if strings.EqualFold(c.Alias, alias) {
			return c, true
		}
	}
	return Crop{}, false
}

// IsDocumentType reports whether the node is of the given document type.
func (n *Node) IsDocumentType(alias string) bool {
	return n != nil && n.DocType == alias
}

// FirstChild returns the first child matching pred, or nil.
func (n *Node) FirstChild(pred func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if pred(c) {
			return c
		}
	}
	return nil
}

// FirstChildOfType returns the first child of the given document type, or nil.
func (n *Node) FirstChildOfType(alias string) *Node {
	return n.FirstChild(func(c *Node) bool { return c.IsDocumentType(alias) })
}

// Property looks up a property by alias, ignoring case.
func (n *Node) Property(alias string) (Property, bool) {
	if n == nil || alias == "" {
		return Property{}, false
	}
	for _, p := range n.Properties {
		if strings.EqualFold(p.Alias, alias) {
			return p, true
		}
	}
	return Property{}, false
}

// Value returns the raw value of a property, or nil.
func (n *Node) Value(alias string) any {
	p, ok := n.Property(alias)
	if !ok {
		return nil
	}
	return p.Value
}

// String returns a string property value, or "".
func (n *Node) String(alias string) string {
	s, _ := n.Value(alias).(string)
	return s
}

// Strings returns a string-list property value. A plain string value is split
// on commas.
func (n *Node) Strings(alias string) []string {
	switch v := n.Value(alias).(type) {
	case []string:
		return FilterEmpty(v)
	case string:
		return FilterEmpty(strings.Split(v, ","))
	}
	return nil
}

// Image returns a single image property value.
func (n *Node) Image(alias string) (Image, bool) {
	img, ok := n.Value(alias).(Image)
	return img, ok
}

// Images returns an image-list property value.
func (n *Node) Images(alias string) []Image {
	imgs, _ := n.Value(alias).([]Image)
	return imgs
}

// SegmentFor returns the node's URL segment for culture.
func (n *Node) SegmentFor(culture string) string {
	if culture != "" {
		if s, ok := n.CultureSegments[strings.ToLower(culture)]; ok && s != "" {
			return s
		}
	}
	if n.URLSegment != "" {
		return n.URLSegment
	}
	return Slugify(n.Name)
}

// BuildTree links nodes to their parents and returns the top-level nodes.
// Children are ordered by SortOrder, then ID. Nodes whose parent is absent are
// treated as top-level.
func BuildTree(nodes []*Node) []*Node {
	byID := make(map[int]*Node, len(nodes))
	for _, n := range nodes {
		n.Children = nil
		byID[n.ID] = n
	}
	var roots []*Node
	for _, n := range nodes {
		parent, ok := byID[n.ParentID]
		if n.ParentID == 0 || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].ID < nodes[j].ID
	})
}

// Descendants returns n and every node below it in depth-first order.
func Descendants(n *Node) []*Node {
	var out []*Node
	stack := []*Node{n}
	seen := make(map[*Node]struct{})
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}
