// Package search provides ranked full-text search over research items
// using Bleve.
package search

import (
	"net/url"
	"strings"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

// Document is an item as stored in the Bleve index.
type Document struct {
	ID          string
	Type        string
	Title       string
	Description string
	URL         string
	Host        string
	BoardIDs    []string
	CreatedAt   int64 // Unix millis
}

// NewDocument builds the index document for an item.
func NewDocument(item *domain.ResearchItem) *Document {
	return &Document{
		ID:          item.ID,
		Type:        string(item.Type),
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		Host:        hostOf(item.URL),
		BoardIDs:    item.BoardIDs,
		CreatedAt:   item.CreatedAt.UnixMilli(),
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       d.Type,
		"title":      d.Title,
		"url":        d.URL,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Host != "" {
		m["host"] = d.Host
	}
	if len(d.BoardIDs) > 0 {
		m["board_ids"] = d.BoardIDs
	}
	return m
}
