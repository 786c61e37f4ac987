package domain

// Image describes an uploaded picture (thread card image, avatar)
type Image struct {
	URL  string    `json:"url"`
	Meta ImageMeta `json:"meta"`
}

// ImageMeta holds the optional image metadata
type ImageMeta struct {
	Type   string `json:"type,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}
