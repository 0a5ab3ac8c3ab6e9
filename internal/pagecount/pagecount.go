package pagecount

import (
	"bytes"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Counter reports PDF page counts for uploaded documents.
type Counter struct{}

func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the number of pages in a PDF. Unparsable or empty content
// counts as 0 pages rather than failing the upload; callers flag zero-page
// files to the client.
func (c *Counter) Count(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		log.Printf("Warning: page count failed, treating document as blank: %v", err)
		return 0
	}
	return n
}
