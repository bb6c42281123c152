// Package scan turns a photo of a grocery item into a catalog search.
package scan

import (
	"io"
	"sync"
)

// Capture is an uploaded image held open while it is recognized. Release
// frees it and is safe to call any number of times; the underlying release
// runs once.
type Capture struct {
	Filename    string
	ContentType string
	Body        io.Reader

	once    sync.Once
	release func() error
	err     error
}

// NewCapture wraps body. release may be nil.
func NewCapture(filename, contentType string, body io.Reader, release func() error) *Capture {
	return &Capture{Filename: filename, ContentType: contentType, Body: body, release: release}
}

func (c *Capture) Release() error {
	c.once.Do(func() {
		if c.release != nil {
			c.err = c.release()
		}
	})
	return c.err
}
