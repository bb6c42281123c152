package scan

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// Unknown is the keyword a recognizer reports when it cannot name the item.
const Unknown = "unknown"

// Recognizer names the single primary grocery item in an image as one
// lowercase keyword, or Unknown.
type Recognizer interface {
	Recognize(ctx context.Context, c *Capture) (string, error)
}

// KeywordRecognizer is a stand-in for an image model. It matches known
// grocery words against the file name, which is what the storefront's
// camera widget names its captures after.
type KeywordRecognizer struct {
	Keywords []string
}

// DefaultKeywords covers the sample catalog.
var DefaultKeywords = []string{
	"apple", "banana", "bread", "carrot", "chicken", "milk", "rice", "tomato", "yogurt",
}

func NewKeywordRecognizer(keywords ...string) *KeywordRecognizer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &KeywordRecognizer{Keywords: keywords}
}

func (r *KeywordRecognizer) Recognize(ctx context.Context, c *Capture) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(c.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", apperr.IO("scan.Recognize", err)
	}
	if n == 0 {
		return "", apperr.Invalid("scan.Recognize", "image", "image is empty")
	}
	if ct := http.DetectContentType(head[:n]); !strings.HasPrefix(ct, "image/") {
		return "", apperr.Invalid("scan.Recognize", "image", "file is not an image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(c.Filename), filepath.Ext(c.Filename)))
	for _, k := range r.Keywords {
		if strings.Contains(stem, k) {
			return k, nil
		}
	}
	return Unknown, nil
}
