// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OCRResult is the page-level output of a conversion backend.
type OCRResult struct {
	// Model is the model that produced the result, when the backend reports it.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Pages holds one entry per processed page, in document order.
	Pages []OCRPage `json:"pages" yaml:"pages"`
}

// OCRPage is the text and embedded images of one page.
type OCRPage struct {
	Index    int        `json:"index" yaml:"index"`
	Markdown string     `json:"markdown" yaml:"markdown"`
	Images   []OCRImage `json:"images,omitempty" yaml:"images,omitempty"`
}

// OCRImage is an image referenced from a page's Markdown.
type OCRImage struct {
	// ID is the name used in the page Markdown, e.g. "img-0.jpeg".
	ID string `json:"id" yaml:"id"`

	// ImageBase64 holds the image payload, optionally as a data URI.
	// Nil when the service did not return image data.
	ImageBase64 *string `json:"image_base64,omitempty" yaml:"image_base64,omitempty"`
}

// AttachmentSource records where a resolved attachment came from.
type AttachmentSource string

const (
	SourceLocal  AttachmentSource = "local"
	SourceRemote AttachmentSource = "remote"
)

// Resolution is the successful outcome of attachment resolution.
type Resolution struct {
	// Key is the attachment item key that was resolved.
	Key string `json:"key" yaml:"key"`

	// Path is the filesystem path of the PDF.
	Path string `json:"path" yaml:"path"`

	// Source is local for a storage hit and remote for a download.
	Source AttachmentSource `json:"source" yaml:"source"`
}
