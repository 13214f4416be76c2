package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/researchqueue/researchqueue-server/internal/view"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List items",
		Description: "Returns unique items, newest first, optionally restricted to a board and a case-insensitive text match",
		Tags:        []string{"Items"},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createItem",
		Method:        http.MethodPost,
		Path:          "/api/v1/items",
		Summary:       "Create item",
		Description:   "Resolves metadata for a URL and saves it to the given boards",
		Tags:          []string{"Items"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Description: "Returns one item with the names of the boards holding it",
		Tags:        []string{"Items"},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItemBoards",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}/boards",
		Summary:     "Set item boards",
		Description: "Replaces the set of boards holding an item",
		Tags:        []string{"Items"},
	}, s.handleUpdateItemBoards)

	huma.Register(s.api, huma.Operation{
		OperationID: "refetchItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/refetch",
		Summary:     "Refetch item metadata",
		Description: "Resolves metadata again and overwrites the item's display fields",
		Tags:        []string{"Items"},
	}, s.handleRefetchItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Removes an item from every board",
		Tags:        []string{"Items"},
	}, s.handleDeleteItem)
}

// ListItemsInput contains the view filter.
type ListItemsInput struct {
	Board string `query:"board" doc:"Restrict to items in this board"`
	Query string `query:"q" doc:"Case-insensitive match on title, description, or URL"`
}

// ListItemsResponse contains the filtered items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"Matching items, newest first"`
	Count int            `json:"count" doc:"Number of matching items"`
	Label string         `json:"label" doc:"Display label for the count"`
}

// ListItemsOutput wraps the list items response for Huma.
type ListItemsOutput struct {
	Body ListItemsResponse
}

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	URL      string   `json:"url" validate:"notblank,max=2048" doc:"Absolute http or https URL"`
	BoardIDs []string `json:"board_ids" validate:"min=1,dive,notblank" doc:"Boards to add the item to"`
}

// CreateItemInput wraps the create item request for Huma.
type CreateItemInput struct {
	Body CreateItemRequest
}

// ItemOutput wraps the item response for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// ItemIDInput contains the item path parameter.
type ItemIDInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// ItemDetailResponse is an item with its board names resolved.
type ItemDetailResponse struct {
	ItemResponse
	BoardNames []string `json:"board_names" doc:"Names of the boards holding the item"`
}

// ItemDetailOutput wraps the item detail response for Huma.
type ItemDetailOutput struct {
	Body ItemDetailResponse
}

// UpdateItemBoardsRequest is the request body for replacing an item's boards.
type UpdateItemBoardsRequest struct {
	BoardIDs []string `json:"board_ids" validate:"dive,notblank" doc:"New set of boards; empty removes the item from all boards"`
}

// UpdateItemBoardsInput wraps the update item boards request for Huma.
type UpdateItemBoardsInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body UpdateItemBoardsRequest
}

func (s *Server) handleListItems(_ context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	f := view.Filter{BoardID: input.Board, Query: input.Query}
	items := s.services.Boards.ItemsMatching(f)
	return &ListItemsOutput{
		Body: ListItemsResponse{
			Items: toItemResponses(items),
			Count: len(items),
			Label: view.CountLabel(len(items)),
		},
	}, nil
}

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Boards.CreateItem(ctx, input.Body.URL, input.Body.BoardIDs)
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleGetItem(_ context.Context, input *ItemIDInput) (*ItemDetailOutput, error) {
	item, err := s.services.Boards.Item(input.ID)
	if err != nil {
		return nil, err
	}
	return &ItemDetailOutput{
		Body: ItemDetailResponse{
			ItemResponse: toItemResponse(item),
			BoardNames:   s.services.Boards.BoardNames(item.BoardIDs),
		},
	}, nil
}

func (s *Server) handleUpdateItemBoards(ctx context.Context, input *UpdateItemBoardsInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Boards.UpdateItemBoards(ctx, input.ID, input.Body.BoardIDs)
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleRefetchItem(ctx context.Context, input *ItemIDInput) (*ItemOutput, error) {
	item, err := s.services.Boards.RefetchItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Body: toItemResponse(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *ItemIDInput) (*MessageOutput, error) {
	if err := s.services.Boards.DeleteItem(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Item deleted"}}, nil
}
