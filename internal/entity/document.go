package entity

import (
	"github.com/joseph-ayodele/docmind/constants"
)

// RawDocument is the text extracted from a source file plus what we know about it.
type RawDocument struct {
	Text        string   `json:"text"`
	Filename    string   `json:"filename,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	SourceType  string   `json:"source_type,omitempty"` // constants.PDF | IMAGE | TEXT
	Method      string   `json:"method,omitempty"`      // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Pages       int      `json:"pages,omitempty"`
	Confidence  float32  `json:"confidence,omitempty"`
	ContentHash string   `json:"content_hash,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Classification is the routing decision for one document.
type Classification struct {
	Category   constants.Category
	Confidence *float64 // set by the model classifier only
	Method     string   // "override" | "keyword" | "model"
}

// Classification methods.
const (
	MethodOverride = "override"
	MethodKeyword  = "keyword"
	MethodModel    = "model"
)
