package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

func (s *Server) registerBoardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBoards",
		Method:      http.MethodGet,
		Path:        "/api/v1/boards",
		Summary:     "List boards",
		Description: "Returns every board with its item replicas",
		Tags:        []string{"Boards"},
	}, s.handleListBoards)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBoard",
		Method:        http.MethodPost,
		Path:          "/api/v1/boards",
		Summary:       "Create board",
		Description:   "Creates an empty board",
		Tags:          []string{"Boards"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBoard",
		Method:      http.MethodGet,
		Path:        "/api/v1/boards/{id}",
		Summary:     "Get board",
		Description: "Returns one board with its item replicas",
		Tags:        []string{"Boards"},
	}, s.handleGetBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBoard",
		Method:      http.MethodPatch,
		Path:        "/api/v1/boards/{id}",
		Summary:     "Update board",
		Description: "Changes a board's name or description. Omitted fields are left unchanged",
		Tags:        []string{"Boards"},
	}, s.handleUpdateBoard)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBoard",
		Method:      http.MethodDelete,
		Path:        "/api/v1/boards/{id}",
		Summary:     "Delete board",
		Description: "Deletes a board and removes it from every item it held",
		Tags:        []string{"Boards"},
	}, s.handleDeleteBoard)
}

// ListBoardsResponse contains a list of boards.
type ListBoardsResponse struct {
	Boards []BoardResponse `json:"boards" doc:"List of boards"`
}

// ListBoardsOutput wraps the list boards response for Huma.
type ListBoardsOutput struct {
	Body ListBoardsResponse
}

// CreateBoardRequest is the request body for creating a board.
type CreateBoardRequest struct {
	Name        string `json:"name" validate:"notblank,max=100" doc:"Board name"`
	Description string `json:"description,omitempty" validate:"max=500" doc:"Board description"`
}

// CreateBoardInput wraps the create board request for Huma.
type CreateBoardInput struct {
	Body CreateBoardRequest
}

// BoardOutput wraps the board response for Huma.
type BoardOutput struct {
	Body BoardResponse
}

// GetBoardInput contains parameters for getting a board.
type GetBoardInput struct {
	ID string `path:"id" doc:"Board ID"`
}

// UpdateBoardRequest is the request body for updating a board.
type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=100" doc:"New board name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"New board description"`
}

// UpdateBoardInput wraps the update board request for Huma.
type UpdateBoardInput struct {
	ID   string `path:"id" doc:"Board ID"`
	Body UpdateBoardRequest
}

// DeleteBoardInput contains parameters for deleting a board.
type DeleteBoardInput struct {
	ID string `path:"id" doc:"Board ID"`
}

func (s *Server) handleListBoards(_ context.Context, _ *struct{}) (*ListBoardsOutput, error) {
	boards := s.services.Boards.Boards()
	resp := make([]BoardResponse, 0, len(boards))
	for _, b := range boards {
		resp = append(resp, toBoardResponse(b))
	}
	return &ListBoardsOutput{Body: ListBoardsResponse{Boards: resp}}, nil
}

func (s *Server) handleCreateBoard(ctx context.Context, input *CreateBoardInput) (*BoardOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	board, err := s.services.Boards.CreateBoard(ctx, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: toBoardResponse(board)}, nil
}

func (s *Server) handleGetBoard(_ context.Context, input *GetBoardInput) (*BoardOutput, error) {
	board, err := s.services.Boards.Board(input.ID)
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: toBoardResponse(board)}, nil
}

func (s *Server) handleUpdateBoard(ctx context.Context, input *UpdateBoardInput) (*BoardOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	board, err := s.services.Boards.UpdateBoard(ctx, input.ID, domain.BoardUpdate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &BoardOutput{Body: toBoardResponse(board)}, nil
}

func (s *Server) handleDeleteBoard(ctx context.Context, input *DeleteBoardInput) (*MessageOutput, error) {
	if err := s.services.Boards.DeleteBoard(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Board deleted"}}, nil
}
