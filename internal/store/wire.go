package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// FormatVersion is the envelope version written by Save.
const FormatVersion = 1

type envelope struct {
	Version int         `json:"version"`
	SavedAt timestamp   `json:"saved_at"`
	Boards  []wireBoard `json:"boards"`
}

type wireBoard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Items       []wireItem `json:"items"`
	CreatedAt   timestamp  `json:"createdAt"`
}

type wireItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	CreatedAt   timestamp `json:"createdAt"`
	BoardIDs    []string  `json:"boardIds"`
	Favicon     string    `json:"favicon,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// timestamp reads RFC 3339 strings or epoch milliseconds and always writes
// RFC 3339 with nanoseconds in UTC.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = timestamp(time.Time{})
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		*t = timestamp(parsed)
		return nil
	}
	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*t = timestamp(time.UnixMilli(int64(ms)).UTC())
	return nil
}

func toWire(boards []domain.Board) []wireBoard {
	out := make([]wireBoard, 0, len(boards))
	for _, b := range boards {
		wb := wireBoard{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Items:       make([]wireItem, 0, len(b.Items)),
			CreatedAt:   timestamp(b.CreatedAt),
		}
		for _, it := range b.Items {
			boardIDs := it.BoardIDs
			if boardIDs == nil {
				boardIDs = []string{}
			}
			wb.Items = append(wb.Items, wireItem{
				ID:          it.ID,
				Type:        string(it.Type),
				Title:       it.Title,
				URL:         it.URL,
				Description: it.Description,
				CreatedAt:   timestamp(it.CreatedAt),
				BoardIDs:    boardIDs,
				Favicon:     it.Favicon,
				Image:       it.Image,
			})
		}
		out = append(out, wb)
	}
	return out
}

func fromWire(boards []wireBoard) []domain.Board {
	out := make([]domain.Board, 0, len(boards))
	for _, wb := range boards {
		b := domain.Board{
			ID:          wb.ID,
			Name:        wb.Name,
			Description: wb.Description,
			CreatedAt:   time.Time(wb.CreatedAt),
			Items:       make([]domain.ResearchItem, 0, len(wb.Items)),
		}
		for _, wi := range wb.Items {
			typ := domain.ItemType(wi.Type)
			if !typ.Valid() {
				typ = domain.ParseItemType(wi.Type)
			}
			b.Items = append(b.Items, domain.ResearchItem{
				ID:          wi.ID,
				Type:        typ,
				Title:       wi.Title,
				URL:         wi.URL,
				Description: wi.Description,
				CreatedAt:   time.Time(wi.CreatedAt),
				BoardIDs:    wi.BoardIDs,
				Favicon:     wi.Favicon,
				Image:       wi.Image,
			})
		}
		out = append(out, b)
	}
	return out
}

// decode accepts the versioned envelope or a bare board array (version 0).
func decode(data []byte) ([]domain.Board, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, ErrMalformed
	}

	if data[0] == '[' {
		var legacy []wireBoard
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return fromWire(legacy), 0, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Version < 1 {
		return nil, env.Version, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	if env.Version > FormatVersion {
		return nil, env.Version, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return fromWire(env.Boards), env.Version, nil
}

func encode(boards []domain.Board, now time.Time) ([]byte, error) {
	return json.Marshal(envelope{
		Version: FormatVersion,
		SavedAt: timestamp(now),
		Boards:  toWire(boards),
	})
}
