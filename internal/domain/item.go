package domain

import (
	"slices"
	"strings"
	"time"
)

// ItemType classifies the content behind a research item's URL.
type ItemType string

// Item types.
const (
	ItemTypeInstagram ItemType = "instagram"
	ItemTypeYouTube   ItemType = "youtube"
	ItemTypeWebsite   ItemType = "website"
	ItemTypeArticle   ItemType = "article"
	ItemTypeOther     ItemType = "other"
)

// ParseItemType maps a platform name reported by the metadata service to an
// ItemType. Empty input means the service detected nothing and yields
// ItemTypeWebsite; unrecognized platforms yield ItemTypeOther.
func ParseItemType(platform string) ItemType {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "":
		return ItemTypeWebsite
	case "instagram":
		return ItemTypeInstagram
	case "youtube":
		return ItemTypeYouTube
	case "website", "web":
		return ItemTypeWebsite
	case "article", "blog", "news":
		return ItemTypeArticle
	default:
		return ItemTypeOther
	}
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeInstagram, ItemTypeYouTube, ItemTypeWebsite, ItemTypeArticle, ItemTypeOther:
		return true
	default:
		return false
	}
}

// ResearchItem is a URL plus its resolved display metadata.
// The same logical item is replicated into every board named in BoardIDs.
type ResearchItem struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Type        ItemType  `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	BoardIDs    []string  `json:"board_ids"`
	Favicon     string    `json:"favicon,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// InBoard checks if the item lists boardID among its boards.
func (i *ResearchItem) InBoard(boardID string) bool {
	return slices.Contains(i.BoardIDs, boardID)
}

// ApplyMetadata overwrites the resolvable fields. ID, URL, CreatedAt and
// BoardIDs are never touched.
func (i *ResearchItem) ApplyMetadata(m Metadata) {
	i.Title = m.Title
	i.Description = m.Description
	i.Favicon = m.Favicon
	i.Image = m.Image
	if m.Type.Valid() {
		i.Type = m.Type
	}
}

// Clone returns a copy of the item that shares no slices with the original.
func (i ResearchItem) Clone() ResearchItem {
	out := i
	out.BoardIDs = slices.Clone(i.BoardIDs)
	return out
}
