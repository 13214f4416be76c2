// Package urlinfo is a client for the website-info metadata service.
package urlinfo

// Request asks the service to describe a URL.
type Request struct {
	URL string `json:"url"`
}

// Response is the service's description of a URL. Every field is optional;
// a non-empty Error means the service could not describe the URL.
type Response struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Favicon     string   `json:"favicon,omitempty"`
	Images      []string `json:"images,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// FirstImage returns the first non-empty image URL, or "".
func (r *Response) FirstImage() string {
	for _, img := range r.Images {
		if img != "" {
			return img
		}
	}
	return ""
}
