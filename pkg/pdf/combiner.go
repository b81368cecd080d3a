// Package pdf merges label documents into one multi-page PDF.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Combinator merges PDF documents page-wise into a single document.
type Combinator struct {
	conf *model.Configuration
}

// NewCombinator creates a combinator with relaxed validation, since
// carrier-generated label PDFs are not always strictly conformant.
func NewCombinator() *Combinator {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Combinator{conf: conf}
}

// Combine merges the given PDF documents into one, in input order.
func (c *Combinator) Combine(documents [][]byte) ([]byte, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if len(documents) == 1 {
		return documents[0], nil
	}

	readers := make([]io.ReadSeeker, len(documents))
	for i, document := range documents {
		readers[i] = bytes.NewReader(document)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, c.conf); err != nil {
		return nil, fmt.Errorf("combining pdf documents: %w", err)
	}

	return buf.Bytes(), nil
}

// PageCount returns the number of pages of a PDF document.
func (c *Combinator) PageCount(document []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(document), c.conf)
	if err != nil {
		return 0, fmt.Errorf("counting pdf pages: %w", err)
	}

	return count, nil
}
