// package services defines interface Service for the remote reading API
package services

import (
	"context"
	"io"

	"github.com/wyndholt/arcana/internal/models"
)

// Service defines the interface for the reading provider backing a session.
type Service interface {
	// ListCards retrieves the full card catalogue. The caller shuffles
	// client-side; catalogue order carries no meaning.
	ListCards(ctx context.Context) ([]models.Card, error)

	// OpenReadingStream opens the streaming reading request and returns the
	// raw response body for the stream pipeline to consume. Closing the
	// returned reader releases the connection.
	OpenReadingStream(ctx context.Context, req models.ReadingRequest) (io.ReadCloser, error)

	// Name returns the provider's display name.
	Name() string
}
