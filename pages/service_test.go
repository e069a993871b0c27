package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubcontent/content"
)

func newSite(t *testing.T) (*Service, *content.MemoryStore) {
	t.Helper()
	store := content.NewMemoryStore(
		&content.Node{ID: 1, Name: "Example", DocType: content.WebsiteType},
		&content.Node{ID: 2, ParentID: 1, Name: "Blog", DocType: "blog", SortOrder: 1},
		&content.Node{ID: 3, ParentID: 2, Name: "Hello World", DocType: "post", CultureSegments: map[string]string{"da-dk": "hej-verden"}},
		&content.Node{ID: 4, ParentID: 1, Name: "Contact", DocType: "contact", SortOrder: 2, URLSegment: "kontakt"},
		&content.Node{ID: 9, Name: "Settings", DocType: content.SiteSettingsType},
	)
	return NewService(store, content.NewPathResolver(store, "https://example.com", "en-US")), store
}

func TestGetHomeURL(t *testing.T) {
	s, _ := newSite(t)
	got, err := s.GetHomeURL(context.Background(), "", content.URLAbsolute)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)

	_, err = s.GetHomeURL(context.Background(), "", content.URLRelative)
	require.ErrorIs(t, err, ErrRelativeURL)
}

func TestGetHomeURLWithoutRoot(t *testing.T) {
	store := content.NewMemoryStore()
	s := NewService(store, content.NewPathResolver(store, "https://example.com", ""))
	_, err := s.GetHomeURL(context.Background(), "", content.URLAbsolute)
	require.ErrorIs(t, err, ErrRootNotFound)
}

func TestGetContentPage(t *testing.T) {
	s, _ := newSite(t)
	ctx := context.Background()

	page, err := s.GetContentPage(ctx, "contact")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, 4, page.ID)

	page, err = s.GetContentPage(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, page)

	_, err = s.GetContentPage(ctx, " ")
	require.ErrorIs(t, err, ErrEmptyAlias)
}

func TestGetContentPageURL(t *testing.T) {
	s, _ := newSite(t)
	ctx := context.Background()

	got, err := s.GetContentPageURL(ctx, "contact", "", content.URLAbsolute)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/kontakt/", got)

	got, err = s.GetContentPageURL(ctx, "missing", "", content.URLAbsolute)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetWebsiteRootPageURL(t *testing.T) {
	s, _ := newSite(t)
	ctx := context.Background()

	got, err := s.GetWebsiteRootPageURL(ctx, "blog", "", content.URLDefault)
	require.NoError(t, err)
	assert.Equal(t, "/blog/", got)

	got, err = s.GetWebsiteRootPageURL(ctx, "post", "", content.URLDefault)
	require.NoError(t, err)
	assert.Empty(t, got, "only direct children of the root are considered")
}

func TestEncoded(t *testing.T) {
	got, err := Encoded("https://example.com/a b/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a%20b/", got)

	got, err = Encoded("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got)

	_, err = Encoded("")
	require.ErrorIs(t, err, ErrEmptyURL)

	_, err = Encoded("/relative/")
	require.ErrorIs(t, err, ErrRelativeURL)
}

func TestGetContentModelURL(t *testing.T) {
	s, store := newSite(t)
	ctx := context.Background()

	post, err := store.GetByID(ctx, 3)
	require.NoError(t, err)

	got, err := s.GetContentModelURL(ctx, post, "")
	require.NoError(t, err)
	assert.Equal(t, "blog/hello-world", got)

	got, err = s.GetContentModelURL(ctx, post, "da-DK")
	require.NoError(t, err)
	assert.Equal(t, "blog/hej-verden", got)
}

func TestGetContentModelURLDetectsCycle(t *testing.T) {
	store := content.NewMemoryStore(
		&content.Node{ID: 1, ParentID: 2, Name: "A", DocType: "page"},
		&content.Node{ID: 2, ParentID: 1, Name: "B", DocType: "page"},
	)
	s := NewService(store, content.NewPathResolver(store, "", ""))
	a, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)

	_, err = s.GetContentModelURL(context.Background(), a, "")
	require.ErrorIs(t, err, content.ErrCycle)
}

func TestGetRootNode(t *testing.T) {
	s, _ := newSite(t)
	n, err := s.GetRootNode(context.Background(), content.SiteSettingsType)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 9, n.ID)
}
