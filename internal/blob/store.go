// Package blob defines the boundary to the external object store used for
// profile pictures.
package blob

import "context"

// Store uploads objects and resolves their public URLs. Implementations must
// allow overwriting an existing path.
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}
