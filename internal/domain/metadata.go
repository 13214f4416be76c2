package domain

import (
	"net/url"
	"strings"
)

// Metadata is the normalized result of resolving a URL.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Favicon     string   `json:"favicon"`
	Image       string   `json:"image,omitempty"`
	Type        ItemType `json:"type"`
}

const (
	// UntitledTitle is used when no title could be resolved.
	UntitledTitle = "Untitled"

	faviconService = "https://www.google.com/s2/favicons"
	faviconSize    = "64"
)

// FaviconURL derives a favicon URL for the host of rawURL from Google's
// favicon service. It returns "" when rawURL has no host.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return faviconService + "?domain=" + u.Hostname() + "&sz=" + faviconSize
}

// OfflineMetadata is the deterministic result used when every remote
// lookup for rawURL has failed.
func OfflineMetadata(rawURL string) Metadata {
	return Metadata{
		Title:       UntitledTitle,
		Description: "",
		Favicon:     FaviconURL(rawURL),
		Type:        ItemTypeWebsite,
	}
}

// ParseAbsoluteURL parses raw and requires both a scheme and a host.
func ParseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errMissingSchemeOrHost}
	}
	return u, nil
}

type urlError string

func (e urlError) Error() string { return string(e) }

const errMissingSchemeOrHost = urlError("missing scheme or host")
