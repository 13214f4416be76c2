package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query   string // User's search query; empty matches everything
	BoardID string // Restrict to items in this board
	Type    string // Restrict to this item type

	Limit  int
	Offset int

	IncludeFacets bool // Include type and board facet counts
}

// DefaultLimit is used when SearchParams.Limit is not positive.
const DefaultLimit = 20

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Type       string            `json:"type"`
	BoardIDs   []string          `json:"board_ids,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types  []FacetCount `json:"types,omitempty"`
	Boards []FacetCount `json:"boards,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query, most relevant first.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, max(params.Offset, 0), false)
	req.SortBy([]string{"-_score", "-created_at"})
	req.Fields = []string{"id", "type", "title", "url", "board_ids"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")

	if params.IncludeFacets {
		req.AddFacet("type", bleve.NewFacetRequest("type", 10))
		req.AddFacet("board_ids", bleve.NewFacetRequest("board_ids", 50))
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["url"].(string); ok {
			h.URL = v
		}
		if v, ok := hit.Fields["type"].(string); ok {
			h.Type = v
		}
		h.BoardIDs = stringsField(hit.Fields["board_ids"])

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(res)
	}
	return result, nil
}

// stringsField reads a stored text field that Bleve returns as a string
// for one value and as a slice for several.
func stringsField(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")
		descMatch.SetBoost(1.0)

		hostMatch := bleve.NewMatchQuery(q)
		hostMatch.SetField("host")
		hostMatch.SetBoost(1.5)

		urlMatch := bleve.NewMatchQuery(q)
		urlMatch.SetField("url")
		urlMatch.SetBoost(0.5)

		// Typo tolerance on titles
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, descMatch, hostMatch, urlMatch, fuzzy}

		// Prefix query for type-ahead (minimum 2 chars)
		if len(q) >= 2 && !strings.ContainsAny(q, " \t") {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.BoardID != "" {
		bq := bleve.NewTermQuery(params.BoardID)
		bq.SetField("board_ids")
		queries = append(queries, bq)
	}

	if params.Type != "" {
		tq := bleve.NewTermQuery(params.Type)
		tq.SetField("type")
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if typeFacet, ok := result.Facets["type"]; ok && typeFacet.Terms != nil {
		for _, term := range typeFacet.Terms.Terms() {
			facets.Types = append(facets.Types, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	if boardFacet, ok := result.Facets["board_ids"]; ok && boardFacet.Terms != nil {
		for _, term := range boardFacet.Terms.Terms() {
			facets.Boards = append(facets.Boards, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return facets
}
