package images

import "context"

// Generator sintetiza una imagen a partir de un prompt descriptivo y
// devuelve exactamente una URL no vacía.
type Generator interface {
	Generate(ctx context.Context, prompt string) (url string, err error)
}
