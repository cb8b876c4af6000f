package roster

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu       sync.RWMutex
	children []Child
	profiles map[string]Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{profiles: make(map[string]Profile)}
}

// AddChild stores a child, generating an ID when missing.
func (r *InMemoryRepository) AddChild(c Child) Child {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.children = append(r.children, c)
	return c
}

func (r *InMemoryRepository) CreateChild(ctx context.Context, child *Child) error {
	*child = r.AddChild(*child)
	return nil
}

func (r *InMemoryRepository) AddProfile(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
}

func (r *InMemoryRepository) ListChildren(
	ctx context.Context,
	guardianID string,
) ([]Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Child
	for _, c := range r.children {
		if c.GuardianID == guardianID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetChild(ctx context.Context, childID string) (*Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.children {
		if c.ID == childID {
			found := c
			return &found, nil
		}
	}
	return nil, ErrChildNotFound
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Child, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Child(nil), r.children...), nil
}

func (r *InMemoryRepository) ListProfiles(
	ctx context.Context,
	userIDs []string,
) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Profile
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
