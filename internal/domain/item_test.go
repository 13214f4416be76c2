package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		platform string
		want     ItemType
	}{
		{"", ItemTypeWebsite},
		{"  ", ItemTypeWebsite},
		{"YouTube", ItemTypeYouTube},
		{"instagram", ItemTypeInstagram},
		{"website", ItemTypeWebsite},
		{"blog", ItemTypeArticle},
		{"article", ItemTypeArticle},
		{"tiktok", ItemTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			got := ParseItemType(tt.platform)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestResearchItem_ApplyMetadata(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item := ResearchItem{
		ID:        "item-1",
		URL:       "https://example.com",
		Type:      ItemTypeArticle,
		Title:     "Old",
		CreatedAt: created,
		BoardIDs:  []string{"b1", "b2"},
	}

	item.ApplyMetadata(Metadata{
		Title:       "New",
		Description: "desc",
		Favicon:     "https://example.com/favicon.ico",
		Image:       "https://example.com/og.png",
		Type:        ItemTypeYouTube,
	})

	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "https://example.com", item.URL)
	assert.Equal(t, created, item.CreatedAt)
	assert.Equal(t, []string{"b1", "b2"}, item.BoardIDs)
	assert.Equal(t, "New", item.Title)
	assert.Equal(t, "desc", item.Description)
	assert.Equal(t, ItemTypeYouTube, item.Type)
	assert.Equal(t, "https://example.com/og.png", item.Image)

	// An invalid type keeps the previous one.
	item.ApplyMetadata(Metadata{Title: "Again", Type: ""})
	assert.Equal(t, ItemTypeYouTube, item.Type)
}

func TestBoard_CloneIsDeep(t *testing.T) {
	b := Board{
		ID:    "b1",
		Name:  "ML Papers",
		Items: []ResearchItem{{ID: "i1", BoardIDs: []string{"b1"}}},
	}

	c := b.Clone()
	c.Items[0].BoardIDs[0] = "changed"
	c.Items[0].Title = "changed"

	assert.Equal(t, "b1", b.Items[0].BoardIDs[0])
	assert.Empty(t, b.Items[0].Title)
	assert.True(t, b.ContainsItem("i1"))
	assert.False(t, b.ContainsItem("i2"))
}

func TestFaviconURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/s2/favicons?domain=arxiv.org&sz=64",
		FaviconURL("https://arxiv.org/abs/1234"))
	assert.Equal(t,
		"https://www.google.com/s2/favicons?domain=example.com&sz=64",
		FaviconURL("https://example.com:8443/x?y=1"))
	assert.Empty(t, FaviconURL("not a url"))
}

func TestOfflineMetadata(t *testing.T) {
	m := OfflineMetadata("https://example.com/x")
	assert.Equal(t, Metadata{
		Title:       "Untitled",
		Description: "",
		Favicon:     "https://www.google.com/s2/favicons?domain=example.com&sz=64",
		Type:        ItemTypeWebsite,
	}, m)
}

func TestParseAbsoluteURL(t *testing.T) {
	u, err := ParseAbsoluteURL("  https://arxiv.org/abs/1234 ")
	require.NoError(t, err)
	assert.Equal(t, "arxiv.org", u.Host)

	u, err = ParseAbsoluteURL("ftp://files.example.com/paper.pdf")
	require.NoError(t, err, "any scheme with a host is absolute")
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=files.example.com&sz=64", FaviconURL(u.String()))

	for _, raw := range []string{"arxiv.org/abs/1234", "/relative/path", "https://", "http://[::1", "http://:80"} {
		_, err := ParseAbsoluteURL(raw)
		assert.Error(t, err, raw)
	}
}
