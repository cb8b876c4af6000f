package roster

import (
	"context"
	"errors"
)

var ErrChildNotFound = errors.New("child not found")

// Repository is the roster store. Children are created by guardians and
// read by everything else.
type Repository interface {
	CreateChild(ctx context.Context, child *Child) error
	ListChildren(ctx context.Context, guardianID string) ([]Child, error)
	GetChild(ctx context.Context, childID string) (*Child, error)
	ListAll(ctx context.Context) ([]Child, error)
	ListProfiles(ctx context.Context, userIDs []string) ([]Profile, error)
}
