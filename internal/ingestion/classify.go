package ingestion

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
)

// Kind tells how a payload reaches the model
type Kind string

// Payload kinds
const (
	KindText   Kind = "text"
	KindBinary Kind = "binary"
)

// textTypes are decoded and sent as prompt text
var textTypes = map[string]bool{
	"text/plain":       true,
	"application/json": true,
	"text/markdown":    true,
	"text/csv":         true,
	"text/html":        true,
}

// textExtensions are decoded as text regardless of the declared type
var textExtensions = map[string]bool{
	".md":  true,
	".txt": true,
}

// binaryTypes are sent inline to a multimodal provider
var binaryTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/heic":      true,
	"image/heif":      true,
}

var wordExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
}

// Payload is the normalized form of one input
type Payload struct {
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name,omitempty"`
	MediaType string    `json:"media_type"`
	Text      string    `json:"text,omitempty"`
	Data      string    `json:"data,omitempty"` // base64
	Metadata  *Metadata `json:"metadata"`
}

// Classify inspects an uploaded file and returns its payload. The declared media type
// wins; when it is empty or application/octet-stream the content is sniffed.
func Classify(name, declaredType string, content []byte) (*Payload, error) {
	mediaType := baseMediaType(declaredType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = baseMediaType(mimetype.Detect(content).String())
	}
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case wordExtensions[ext] || strings.Contains(mediaType, "wordprocessingml") || mediaType == "application/msword":
		return nil, &UnsupportedFileError{Name: name, MediaType: mediaType, Guidance: WordGuidance, Kind: ErrWordDocument}

	case textTypes[mediaType] || textExtensions[ext]:
		text, err := decodeText(mediaType, content)
		if err != nil {
			return nil, err
		}
		return &Payload{
			Kind:      KindText,
			Name:      name,
			MediaType: mediaType,
			Text:      text,
			Metadata:  NewMetadata(text, name, len(content)),
		}, nil

	case binaryTypes[mediaType]:
		return &Payload{
			Kind:      KindBinary,
			Name:      name,
			MediaType: mediaType,
			Data:      base64.StdEncoding.EncodeToString(content),
			Metadata:  NewMetadata(string(content), name, len(content)),
		}, nil
	}

	return nil, &UnsupportedFileError{Name: name, MediaType: mediaType, Guidance: UnsupportedGuidance, Kind: ErrUnsupportedType}
}

// TextPayload wraps pasted text
func TextPayload(text string) *Payload {
	cleaned := CleanText(text)
	return &Payload{
		Kind:      KindText,
		MediaType: "text/plain",
		Text:      cleaned,
		Metadata:  NewMetadata(cleaned, "", len(text)),
	}
}

func decodeText(mediaType string, content []byte) (string, error) {
	text := strings.ToValidUTF8(string(content), "\uFFFD")
	text = strings.TrimPrefix(text, "\uFEFF")

	switch mediaType {
	case "application/json":
		return strings.TrimSpace(text), nil
	case "text/html":
		md, err := HTMLToMarkdown(text)
		if err != nil {
			return "", err
		}
		return CleanText(md), nil
	}
	return CleanText(text), nil
}

// HTMLToMarkdown drops scripts and styles from an HTML document and converts the
// remainder to markdown
func HTMLToMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, iframe").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return md, nil
}

func baseMediaType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(t); err == nil {
		return strings.ToLower(parsed)
	}
	return strings.ToLower(strings.TrimSpace(strings.SplitN(t, ";", 2)[0]))
}
