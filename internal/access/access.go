// Package access is the ownership boundary between authenticated callers
// and the rows they may see.
package access

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// Identity is the resolved caller of a request.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity the middleware attached to ctx.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RequireOwner fails with notFound unless callerID owns the row. Rows owned
// by someone else are indistinguishable from missing ones.
func RequireOwner(callerID, rowOwnerID uuid.UUID, notFound error) error {
	if callerID == uuid.Nil || callerID != rowOwnerID {
		return notFound
	}
	return nil
}
