package models

import (
	"path/filepath"
	"strings"
)

// MimeKind is the coarse media type of an extracted artifact
type MimeKind int

const (
	MimeKindImage MimeKind = iota
	MimeKindVideo
)

// String returns the string representation of the mime kind
func (k MimeKind) String() string {
	if k == MimeKindVideo {
		return "video"
	}
	return "image"
}

// MimeKindFromPath classifies a local file by extension.
func MimeKindFromPath(path string) (MimeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".heic":
		return MimeKindImage, true
	case ".mp4", ".mov", ".m4v", ".webm":
		return MimeKindVideo, true
	default:
		return MimeKindImage, false
	}
}

// ExtractionResult is a single local artifact produced by the extraction chain.
// The file lives inside a scope and is deleted after delivery.
type ExtractionResult struct {
	LocalFilePath string
	MimeKind      MimeKind
	CaptionText   *string // display caption, already formatted for the artifact
	Strategy      string  // name of the strategy that produced the artifact
	Warnings      []string
}

// Caption returns the caption text or an empty string.
func (r *ExtractionResult) Caption() string {
	if r == nil || r.CaptionText == nil {
		return ""
	}
	return *r.CaptionText
}
