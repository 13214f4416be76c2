package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/researchqueue/researchqueue-server/internal/domain"
	domainerrors "github.com/researchqueue/researchqueue-server/internal/errors"
	"github.com/researchqueue/researchqueue-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search items",
		Description: "Ranked full-text search with typo tolerance, most relevant first",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains search parameters.
type SearchInput struct {
	Query  string `query:"q" doc:"Search query; empty matches every item"`
	Board  string `query:"board" doc:"Restrict to items in this board"`
	Type   string `query:"type" doc:"Restrict to this item type"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Hits to skip"`
	Facets bool   `query:"facets" doc:"Include type and board facet counts"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("search is disabled")
	}
	if input.Type != "" && !domain.ItemType(input.Type).Valid() {
		return nil, domainerrors.ValidationWithDetails("unknown item type",
			map[string]string{"type": "must be one of instagram, youtube, website, article, other"})
	}

	result, err := s.services.Search.Search(ctx, search.SearchParams{
		Query:         input.Query,
		BoardID:       input.Board,
		Type:          input.Type,
		Limit:         input.Limit,
		Offset:        input.Offset,
		IncludeFacets: input.Facets,
	})
	if err != nil {
		s.logger.Error("search failed", "query", input.Query, "error", err)
		return nil, huma.Error500InternalServerError("search failed")
	}
	return &SearchOutput{Body: result}, nil
}
