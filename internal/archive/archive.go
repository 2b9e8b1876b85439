// Package archive moves approved content into permanent storage and delivers
// archived content back to users. Two backends exist: an S3-compatible
// object store and a transport-side archive channel. The engine only sees
// opaque refs; each backend owns its own ref format.
package archive

import (
	"context"

	"campus-notes-bot/internal/gateway"
)

// Archiver is the permanent home of approved documents.
type Archiver interface {
	// Archive copies the source content into permanent storage and returns
	// a ref this archiver can later deliver from.
	Archive(ctx context.Context, src gateway.ContentRef) (string, error)

	// Deliver sends the content behind an archived ref to the user.
	Deliver(ctx context.Context, ref string, userID int64) error
}
