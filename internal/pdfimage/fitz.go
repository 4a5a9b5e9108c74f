// Package pdfimage renders PDF pages to PNG files for downstream OCR.
package pdfimage

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders PDF pages with MuPDF. It satisfies port.Rasterizer.
type Rasterizer struct {
	maxPages int
}

// NewRasterizer caps documents at maxPages pages; zero means no cap.
func NewRasterizer(maxPages int) *Rasterizer {
	return &Rasterizer{maxPages: maxPages}
}

// Rasterize writes one PNG per page into dir and returns the paths in page
// order. On error it removes any pages already written.
func (r *Rasterizer) Rasterize(ctx context.Context, pdf []byte, dir string) ([]string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	if r.maxPages > 0 && pages > r.maxPages {
		return nil, fmt.Errorf("pdf has %d pages, limit is %d", pages, r.maxPages)
	}

	paths := make([]string, 0, pages)
	cleanup := func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}

		img, err := doc.Image(i)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("page-%03d.png", i+1))
		f, err := os.Create(path)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			os.Remove(path)
			cleanup()
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			cleanup()
			return nil, fmt.Errorf("closing %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
