// Package sse implements Server-Sent Events for broadcasting board and item
// changes to connected UIs.
package sse

import (
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBoardCreated is sent after a board is added.
	EventBoardCreated EventType = "board.created"
	// EventBoardUpdated is sent after a board is renamed or redescribed.
	EventBoardUpdated EventType = "board.updated"
	// EventBoardDeleted is sent after a board and its replicas are removed.
	EventBoardDeleted EventType = "board.deleted"

	// EventItemCreated is sent after an item is resolved and added.
	EventItemCreated EventType = "item.created"
	// EventItemUpdated is sent after a refetch or a membership change.
	EventItemUpdated EventType = "item.updated"
	// EventItemDeleted is sent after an item is removed from every board.
	EventItemDeleted EventType = "item.deleted"

	// EventStoreBusy is sent when the store starts or stops waiting on
	// metadata resolution.
	EventStoreBusy EventType = "store.busy"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BoardEventData is the payload of board created/updated events.
type BoardEventData struct {
	Board domain.Board `json:"board"`
}

// BoardDeletedEventData is the payload of board deleted events.
type BoardDeletedEventData struct {
	BoardID string `json:"board_id"`
}

// ItemEventData is the payload of item created/updated events.
type ItemEventData struct {
	Item domain.ResearchItem `json:"item"`
}

// ItemDeletedEventData is the payload of item deleted events.
type ItemDeletedEventData struct {
	ItemID   string   `json:"item_id"`
	BoardIDs []string `json:"board_ids"`
}

// BusyEventData is the payload of store.busy events.
type BusyEventData struct {
	Busy     bool `json:"busy"`
	InFlight int  `json:"in_flight"`
}

func newEvent(t EventType, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}

// NewBoardCreatedEvent creates a board.created event.
func NewBoardCreatedEvent(b domain.Board) Event {
	return newEvent(EventBoardCreated, BoardEventData{Board: b})
}

// NewBoardUpdatedEvent creates a board.updated event.
func NewBoardUpdatedEvent(b domain.Board) Event {
	return newEvent(EventBoardUpdated, BoardEventData{Board: b})
}

// NewBoardDeletedEvent creates a board.deleted event.
func NewBoardDeletedEvent(boardID string) Event {
	return newEvent(EventBoardDeleted, BoardDeletedEventData{BoardID: boardID})
}

// NewItemCreatedEvent creates an item.created event.
func NewItemCreatedEvent(it domain.ResearchItem) Event {
	return newEvent(EventItemCreated, ItemEventData{Item: it})
}

// NewItemUpdatedEvent creates an item.updated event.
func NewItemUpdatedEvent(it domain.ResearchItem) Event {
	return newEvent(EventItemUpdated, ItemEventData{Item: it})
}

// NewItemDeletedEvent creates an item.deleted event.
func NewItemDeletedEvent(itemID string, boardIDs []string) Event {
	return newEvent(EventItemDeleted, ItemDeletedEventData{ItemID: itemID, BoardIDs: boardIDs})
}

// NewBusyEvent creates a store.busy event.
func NewBusyEvent(inFlight int) Event {
	return newEvent(EventStoreBusy, BusyEventData{Busy: inFlight > 0, InFlight: inFlight})
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return newEvent(EventHeartbeat, map[string]any{})
}
