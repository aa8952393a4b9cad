package resource

// ImageRef is the backend's handle on a stored image. PublicID is opaque.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

// URLOf returns the image URL or "" for a nil reference.
func (r *ImageRef) URLOf() string {
	if r == nil {
		return ""
	}
	return r.URL
}
