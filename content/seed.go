package content

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed is a YAML description of a content tree.
//
//	nodes:
//	  - id: 1
//	    name: My Site
//	    type: Website
//	    properties:
//	      - alias: metaTitle
//	        editor: Umbraco.TextBox
//	        value: My Site
//	    children:
//	      - id: 2
//	        name: Blog
//	        type: blog
type Seed struct {
	Nodes []SeedNode `yaml:"nodes"`
}

// SeedNode is one node of a Seed. Children inherit the node's id as parent.
type SeedNode struct {
	ID         int               `yaml:"id"`
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Segment    string            `yaml:"segment"`
	Cultures   map[string]string `yaml:"cultures"`
	SortOrder  int               `yaml:"sort"`
	Properties []SeedProperty    `yaml:"properties"`
	Children   []SeedNode        `yaml:"children"`
}

// SeedProperty is a property whose value is decoded according to its editor.
type SeedProperty struct {
	Alias  string    `yaml:"alias"`
	Editor string    `yaml:"editor"`
	Value  yaml.Node `yaml:"value"`
}

// LoadSeed parses a YAML seed and flattens it into nodes with ParentID set.
func LoadSeed(r io.Reader) ([]*Node, error) {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("content: decode seed: %w", err)
	}
	var out []*Node
	seen := make(map[int]struct{})
	var walk func(parentID int, sn []SeedNode) error
	walk = func(parentID int, sn []SeedNode) error {
		for i, s := range sn {
			if s.ID <= 0 {
				return fmt.Errorf("content: seed node %q: id must be positive", s.Name)
			}
			if _, dup := seen[s.ID]; dup {
				return fmt.Errorf("content: seed node id %d is duplicated", s.ID)
			}
			seen[s.ID] = struct{}{}
			n := &Node{
				ID:              s.ID,
				ParentID:        parentID,
				SortOrder:       s.SortOrder,
				Name:            s.Name,
				DocType:         s.Type,
				URLSegment:      Slugify(s.Segment),
				CultureSegments: cultureSegments(s.Cultures),
			}
			if n.SortOrder == 0 {
				n.SortOrder = i
			}
			for _, sp := range s.Properties {
				v, err := decodeSeedValue(KindOf(sp.Editor), &sp.Value)
				if err != nil {
					return fmt.Errorf("content: seed node %d property %q: %w", s.ID, sp.Alias, err)
				}
				n.Properties = append(n.Properties, Property{Alias: sp.Alias, EditorAlias: sp.Editor, Value: v})
			}
			out = append(out, n)
			if err := walk(s.ID, s.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, seed.Nodes); err != nil {
		return nil, err
	}
	return out, nil
}

// cultureSegments lower-cases culture keys and slugifies their segments, the
// form SegmentFor looks up.
func cultureSegments(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for culture, seg := range in {
		culture = strings.ToLower(strings.TrimSpace(culture))
		if seg = Slugify(seg); culture != "" && seg != "" {
			out[culture] = seg
		}
	}
	return out
}

func decodeSeedValue(kind EditorKind, v *yaml.Node) (any, error) {
	switch v.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		var img Image
		err := v.Decode(&img)
		return img, err
	case yaml.SequenceNode:
		if kind == EditorMediaPicker {
			var imgs []Image
			err := v.Decode(&imgs)
			return imgs, err
		}
		var vals []string
		err := v.Decode(&vals)
		return vals, err
	default:
		var s string
		err := v.Decode(&s)
		return s, err
	}
}

// ImportSeed loads a seed from r and saves every node through w.
func ImportSeed(ctx context.Context, w Writer, r io.Reader) (int, error) {
	nodes, err := LoadSeed(r)
	if err != nil {
		return 0, err
	}
	for i, n := range nodes {
		if err := w.SaveNode(ctx, n); err != nil {
			return i, fmt.Errorf("content: save node %d: %w", n.ID, err)
		}
	}
	return len(nodes), nil
}
