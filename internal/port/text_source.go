package port

import "context"

// TextSource extracts raw text from a single image. Implementations wrap an
// OCR provider; the pipeline never depends on a concrete provider.
type TextSource interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
