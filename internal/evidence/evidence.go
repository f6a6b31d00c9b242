// Package evidence streams dispute evidence files from object storage.
package evidence

import (
	"context"
	"fmt"
	"io"

	"github.com/mtlprog/workdesk/internal/domain"
)

// Object is an opened evidence file. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store resolves evidence file ids to their content.
type Store interface {
	Open(ctx context.Context, fileID string) (*Object, error)
}

// Disabled is used when no object storage is configured. Every lookup
// reports the file as missing.
type Disabled struct{}

// Open always returns ErrEvidenceNotFound.
func (Disabled) Open(_ context.Context, fileID string) (*Object, error) {
	return nil, fmt.Errorf("%w: storage not configured for %s", domain.ErrEvidenceNotFound, fileID)
}
