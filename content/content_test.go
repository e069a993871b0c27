package content

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
nodes:
  - id: 1
    name: My Site
    type: Website
    properties:
      - alias: metaTitle
        editor: Umbraco.TextBox
        value: MySite
      - alias: websiteLogo
        editor: Umbraco.MediaPicker3
        value:
          url: /media/logo.png
          width: 200
          height: 80
    children:
      - id: 2
        name: Blog
        type: blog
        children:
          - id: 3
            name: Hello World
            type: post
            cultures:
              da-dk: hej-verden
            properties:
              - alias: metaKeywords
                editor: Umbraco.Tags
                value: [go, cms]
              - alias: gallery
                editor: Umbraco.MediaPicker3
                value:
                  - url: /media/one.jpg
                    crops:
                      - alias: social
                        width: 1200
                        height: 630
      - id: 4
        name: Contact
        type: contact
        segment: kontakt
  - id: 9
    name: Settings
    type: siteSettings
`

func TestLoadSeed(t *testing.T) {
	nodes, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, nodes, 5)

	byID := map[int]*Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, 0, byID[1].ParentID)
	assert.Equal(t, 1, byID[2].ParentID)
	assert.Equal(t, 2, byID[3].ParentID)
	assert.Equal(t, "kontakt", byID[4].URLSegment)

	logo, ok := byID[1].Image("websiteLogo")
	require.True(t, ok)
	assert.Equal(t, Image{URL: "/media/logo.png", Width: 200, Height: 80}, logo)

	assert.Equal(t, []string{"go", "cms"}, byID[3].Strings("metaKeywords"))
	gallery := byID[3].Images("gallery")
	require.Len(t, gallery, 1)
	crop, ok := gallery[0].Crop("SOCIAL")
	require.True(t, ok)
	assert.Equal(t, 1200, crop.Width)
}

func TestLoadSeedNormalizesCultures(t *testing.T) {
	const doc = `
nodes:
  - id: 1
    name: Hello World
    type: post
    segment: Hello There
    cultures:
      da-DK: Hej Verden
      " SV-se ": Hej Världen
      fr-fr: "!!!"
`
	nodes, err := LoadSeed(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, "hello-there", n.URLSegment)
	assert.Equal(t, map[string]string{"da-dk": "hej-verden", "sv-se": "hej-v-rlden"}, n.CultureSegments)
	assert.Equal(t, "hej-verden", n.SegmentFor("da-DK"))
	assert.Equal(t, "hello-there", n.SegmentFor("fr-FR"))
}

func TestLoadSeedRejectsDuplicateIDs(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("nodes:\n  - {id: 1, name: a, type: x}\n  - {id: 1, name: b, type: x}\n"))
	require.Error(t, err)

	_, err = LoadSeed(strings.NewReader("nodes:\n  - {name: a, type: x}\n"))
	require.Error(t, err)
}

func TestImportSeedIntoSQLite(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := ImportSeed(ctx, s, strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	roots, err := s.ContentAtRoot(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "MySite", roots[0].String("metaTitle"))
	blog := roots[0].FirstChildOfType("blog")
	require.NotNil(t, blog)
	require.NotNil(t, blog.FirstChildOfType("post"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(
		&Node{ID: 1, Name: "Site", DocType: WebsiteType},
		&Node{ID: 2, ParentID: 1, Name: "Page", DocType: "page"},
	)

	roots, err := s.ContentAtRoot(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)

	require.NoError(t, s.SaveNode(ctx, &Node{ID: 3, ParentID: 1, Name: "Other", DocType: "page", SortOrder: -1}))
	roots, err = s.ContentAtRoot(ctx)
	require.NoError(t, err)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, 3, roots[0].Children[0].ID)

	require.NoError(t, s.DeleteNode(ctx, 1))
	roots, err = s.ContentAtRoot(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 2, "orphans become top-level")

	_, err = s.GetByID(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteNode(ctx, 1), ErrNotFound)
	require.Error(t, s.SaveNode(ctx, &Node{}))
}

func TestMemoryStoreSnapshotsSurviveWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(
		&Node{ID: 1, Name: "Site", DocType: WebsiteType},
		&Node{ID: 2, ParentID: 1, Name: "Page", DocType: "page"},
	)

	before, err := s.ContentAtRoot(ctx)
	require.NoError(t, err)
	site, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, before[0], site)

	require.NoError(t, s.SaveNode(ctx, &Node{ID: 3, ParentID: 1, Name: "New", DocType: "page"}))
	assert.Len(t, before[0].Children, 1, "earlier tree is left as it was")

	after, err := s.ContentAtRoot(ctx)
	require.NoError(t, err)
	assert.Len(t, after[0].Children, 2)
}

func TestMemoryStoreConcurrentReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(&Node{ID: 1, Name: "Site", DocType: WebsiteType})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 2; i < 200; i++ {
			assert.NoError(t, s.SaveNode(ctx, &Node{ID: i, ParentID: 1 + i%3, Name: "Page", DocType: "page"}))
			if i%5 == 0 {
				assert.NoError(t, s.DeleteNode(ctx, i-1))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			roots, err := s.ContentAtRoot(ctx)
			if !assert.NoError(t, err) {
				return
			}
			for _, r := range roots {
				for _, n := range Descendants(r) {
					_ = n.SegmentFor("")
				}
			}
		}
	}()
	wg.Wait()

	roots, err := s.ContentAtRoot(ctx)
	require.NoError(t, err)
	total := 0
	for _, r := range roots {
		total += len(Descendants(r))
	}
	assert.Equal(t, 1+198-39, total)
}

func TestPathResolver(t *testing.T) {
	ctx := context.Background()
	nodes, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	s := NewMemoryStore(nodes...)
	r := NewPathResolver(s, "https://example.com/", "en-US")

	post, err := s.GetByID(ctx, 3)
	require.NoError(t, err)
	root, err := s.GetByID(ctx, 1)
	require.NoError(t, err)

	tests := []struct {
		node    *Node
		culture string
		mode    URLMode
		want    string
	}{
		{post, "", URLDefault, "/blog/hello-world/"},
		{post, "en-US", URLRelative, "/blog/hello-world/"},
		{post, "", URLAbsolute, "https://example.com/blog/hello-world/"},
		{post, "da-DK", URLRelative, "/da-dk/blog/hej-verden/"},
		{root, "", URLRelative, "/"},
		{root, "", URLAbsolute, "https://example.com/"},
		{root, "da-DK", URLAbsolute, "https://example.com/da-dk/"},
	}
	for _, tt := range tests {
		got, err := r.URL(ctx, tt.node, tt.culture, tt.mode)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "node %d culture %q mode %d", tt.node.ID, tt.culture, tt.mode)
	}

	got, err := r.URL(ctx, nil, "", URLAbsolute)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, "https://example.com/media/logo.png", r.MediaURL(Image{URL: "/media/logo.png"}, URLAbsolute))
	assert.Equal(t, "/media/logo.png", r.MediaURL(Image{URL: "/media/logo.png"}, URLRelative))
	assert.Empty(t, r.MediaURL(Image{}, URLAbsolute))
}

func TestWalkAncestorsDepthGuard(t *testing.T) {
	var nodes []*Node
	for i := 1; i <= MaxDepth+2; i++ {
		nodes = append(nodes, &Node{ID: i, ParentID: i + 1, Name: "n", DocType: "page"})
	}
	s := NewMemoryStore(nodes...)
	err := WalkAncestors(context.Background(), s, nodes[0], func(*Node) bool { return true })
	require.ErrorIs(t, err, ErrCycle)
}

func TestFindByRoute(t *testing.T) {
	nodes, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	roots := BuildTree(nodes)

	assert.Equal(t, 1, FindByRoute(roots, "/", "").ID)
	assert.Equal(t, 3, FindByRoute(roots, "/blog/hello-world/", "").ID)
	assert.Equal(t, 3, FindByRoute(roots, "/da-dk/blog/hej-verden", "da-DK").ID)
	assert.Equal(t, 4, FindByRoute(roots, "/Kontakt", "").ID)
	assert.Nil(t, FindByRoute(roots, "/missing/", ""))
	assert.Nil(t, FindByRoute(nil, "/", ""))
}

func TestSlugifyAndBuildURL(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("  Hello, World! "))
	assert.Equal(t, "https://example.com/blog/post/", BuildURL("https://example.com", "blog", "post"))
	assert.Equal(t, "https://example.com", BuildURL("https://example.com"))
	assert.Equal(t, []string{"a", "b"}, FilterEmpty([]string{" a ", "", "b", "  "}))
	assert.Equal(t, "https://cdn.example/x.jpg", AbsoluteURL("https://example.com/", "https://cdn.example/x.jpg"))
}
