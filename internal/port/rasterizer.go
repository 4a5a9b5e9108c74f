package port

import "context"

// Rasterizer renders each page of a PDF to an image file under dir and
// returns the paths in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, dir string) ([]string, error)
}
