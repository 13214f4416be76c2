package api

import (
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// ItemResponse represents a research item in API responses.
type ItemResponse struct {
	ID          string    `json:"id" doc:"Item ID"`
	Type        string    `json:"type" doc:"Item type: instagram, youtube, website, article, or other"`
	Title       string    `json:"title" doc:"Display title"`
	URL         string    `json:"url" doc:"Saved URL"`
	Description string    `json:"description" doc:"Resolved description"`
	Favicon     string    `json:"favicon,omitempty" doc:"Favicon URL"`
	Image       string    `json:"image,omitempty" doc:"Preview image URL"`
	BoardIDs    []string  `json:"board_ids" doc:"Boards holding this item"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
}

// BoardResponse represents a board and its item replicas.
type BoardResponse struct {
	ID          string         `json:"id" doc:"Board ID"`
	Name        string         `json:"name" doc:"Board name"`
	Description string         `json:"description" doc:"Board description"`
	ItemCount   int            `json:"item_count" doc:"Number of items on the board"`
	Items       []ItemResponse `json:"items" doc:"Items on the board, in join order"`
	CreatedAt   time.Time      `json:"created_at" doc:"Creation time"`
}

func toItemResponse(item domain.ResearchItem) ItemResponse {
	boardIDs := item.BoardIDs
	if boardIDs == nil {
		boardIDs = []string{}
	}
	return ItemResponse{
		ID:          item.ID,
		Type:        string(item.Type),
		Title:       item.Title,
		URL:         item.URL,
		Description: item.Description,
		Favicon:     item.Favicon,
		Image:       item.Image,
		BoardIDs:    boardIDs,
		CreatedAt:   item.CreatedAt,
	}
}

func toItemResponses(items []domain.ResearchItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toBoardResponse(b domain.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		ItemCount:   len(b.Items),
		Items:       toItemResponses(b.Items),
		CreatedAt:   b.CreatedAt,
	}
}

// MessageResponse is a simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
