// Package media stores user-uploaded files (payment screenshots,
// avatars) behind a small Store interface with disk and S3 drivers.
package media

import "context"

type Store interface {
	// Put writes data under name and returns the public URL to serve it from.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Remove deletes the object a previous Put returned url for. URLs the
	// store does not recognize are ignored.
	Remove(ctx context.Context, url string) error
}
