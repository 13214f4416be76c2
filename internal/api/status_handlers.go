package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/researchqueue/researchqueue-server/internal/view"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Collection status",
		Description: "Returns collection counts and whether metadata is being fetched",
		Tags:        []string{"Status"},
	}, s.handleStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/view",
		Summary:     "Get stored view",
		Description: "Returns the items matching the stored board filter and search query",
		Tags:        []string{"Status"},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateView",
		Method:      http.MethodPut,
		Path:        "/api/v1/view",
		Summary:     "Update stored view",
		Description: "Replaces the stored board filter and search query",
		Tags:        []string{"Status"},
	}, s.handleUpdateView)
}

// StatusResponse reports the busy signal and collection counts.
type StatusResponse struct {
	Busy     bool   `json:"busy" doc:"True while any metadata fetch is in flight"`
	InFlight int    `json:"in_flight" doc:"Number of metadata fetches in flight"`
	Boards   int    `json:"boards" doc:"Number of boards"`
	Items    int    `json:"items" doc:"Number of unique items on at least one board"`
	Label    string `json:"label" doc:"Display label for the item count"`
	Board    string `json:"board,omitempty" doc:"Board the stored view is filtered on"`
	Query    string `json:"query,omitempty" doc:"Stored view search query"`
}

// StatusOutput wraps the status response for Huma.
type StatusOutput struct {
	Body StatusResponse
}

func (s *Server) handleStatus(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	stats := s.services.Boards.Stats()
	vs := s.services.Boards.ViewState()
	return &StatusOutput{
		Body: StatusResponse{
			Busy:     stats.InFlight > 0,
			InFlight: stats.InFlight,
			Boards:   stats.Boards,
			Items:    stats.Items,
			Label:    view.CountLabel(stats.Items),
			Board:    vs.BoardID,
			Query:    vs.Query,
		},
	}, nil
}

// ViewRequest is the request body for replacing the stored view.
type ViewRequest struct {
	Board string `json:"board,omitempty" doc:"Board to filter on; empty shows every item"`
	Query string `json:"query,omitempty" doc:"Case-insensitive search query"`
}

// UpdateViewInput wraps the view request for Huma.
type UpdateViewInput struct {
	Body ViewRequest
}

// ViewResponse is the stored view and the items it selects.
type ViewResponse struct {
	Board string         `json:"board,omitempty" doc:"Board the view is filtered on"`
	Query string         `json:"query,omitempty" doc:"Search query"`
	Items []ItemResponse `json:"items" doc:"Matching items, newest first"`
	Label string         `json:"label" doc:"Display label for the count"`
}

// ViewOutput wraps the view response for Huma.
type ViewOutput struct {
	Body ViewResponse
}

func (s *Server) handleGetView(_ context.Context, _ *struct{}) (*ViewOutput, error) {
	return s.viewOutput(), nil
}

func (s *Server) handleUpdateView(_ context.Context, input *UpdateViewInput) (*ViewOutput, error) {
	if input.Body.Board != "" {
		if _, err := s.services.Boards.Board(input.Body.Board); err != nil {
			return nil, err
		}
	}
	s.services.Boards.SetBoardFilter(input.Body.Board)
	s.services.Boards.SetSearchQuery(input.Body.Query)
	return s.viewOutput(), nil
}

func (s *Server) viewOutput() *ViewOutput {
	vs := s.services.Boards.ViewState()
	items := s.services.Boards.FilteredItems()
	return &ViewOutput{
		Body: ViewResponse{
			Board: vs.BoardID,
			Query: vs.Query,
			Items: toItemResponses(items),
			Label: view.CountLabel(len(items)),
		},
	}
}
