package api

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
	"github.com/researchqueue/researchqueue-server/internal/search"
)

func TestSearch(t *testing.T) {
	pages := arxivPages()
	pages["https://www.youtube.com/watch?v=abc"] = &urlinfo.Response{
		Title:    "Transformers explained",
		Platform: "youtube",
	}
	ts := setupTestServer(t, pages)
	papers := ts.createBoard(t, "Papers")
	videos := ts.createBoard(t, "Videos")
	paper := ts.createItem(t, arxivURL, papers.ID)
	video := ts.createItem(t, "https://www.youtube.com/watch?v=abc", videos.ID)

	t.Run("ranked text match", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?q=attention")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		result := envelopeOf[search.SearchResult](t, resp)
		require.NotEmpty(t, result.Hits)
		assert.Equal(t, paper.ID, result.Hits[0].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?type=youtube")
		require.Equal(t, http.StatusOK, resp.Code)

		result := envelopeOf[search.SearchResult](t, resp)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, video.ID, result.Hits[0].ID)
	})

	t.Run("board filter with facets", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?board=" + papers.ID + "&facets=true")
		require.Equal(t, http.StatusOK, resp.Code)

		result := envelopeOf[search.SearchResult](t, resp)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, paper.ID, result.Hits[0].ID)
		assert.NotEmpty(t, result.Facets.Types)
	})

	t.Run("unknown type", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?type=podcast")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION", errorOf(t, resp).Code)
	})
}

func TestSearch_FollowsDeletes(t *testing.T) {
	ts := setupTestServer(t, arxivPages())
	board := ts.createBoard(t, "Papers")
	item := ts.createItem(t, arxivURL, board.ID)

	require.Equal(t, http.StatusOK, ts.api.Delete("/api/v1/items/"+item.ID).Code)

	resp := ts.api.Get("/api/v1/search?q=attention")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, envelopeOf[search.SearchResult](t, resp).Hits)
}

func TestSearch_Disabled(t *testing.T) {
	ts := setupTestServer(t, nil)
	srv := NewServer(&Services{Boards: ts.boards}, nil, Options{}, nil)
	api := humatest.Wrap(t, srv.API())

	resp := api.Get("/api/v1/search?q=anything")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
