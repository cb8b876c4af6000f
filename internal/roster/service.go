package roster

import (
	"context"
	"errors"
	"strings"

	"github.com/SchoolMenu/nutrition-sona/internal/menu"
)

var (
	ErrNotGuardian  = errors.New("child does not belong to this account")
	ErrInvalidChild = errors.New("child name and grade are required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListChildren(ctx context.Context, guardianID string) ([]Child, error) {
	return s.repo.ListChildren(ctx, guardianID)
}

// AddChild registers a child for the guardian. Allergies may be given as
// codes or display labels; unknown ones are rejected.
func (s *Service) AddChild(
	ctx context.Context,
	guardianID string,
	name string,
	grade string,
	allergies []string,
) (*Child, error) {

	name, grade = strings.TrimSpace(name), strings.TrimSpace(grade)
	if name == "" || grade == "" {
		return nil, ErrInvalidChild
	}

	set, err := menu.ParseAllergens(allergies)
	if err != nil {
		return nil, err
	}

	child := &Child{
		Name:       name,
		Grade:      grade,
		GuardianID: guardianID,
		Allergies:  set,
	}
	if err := s.repo.CreateChild(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

// --------------------------------------------------
// Ownership check (SECURITY)
// --------------------------------------------------
func (s *Service) OwnedChild(
	ctx context.Context,
	guardianID string,
	childID string,
) (*Child, error) {

	child, err := s.repo.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child.GuardianID != guardianID {
		return nil, ErrNotGuardian
	}
	return child, nil
}

// --------------------------------------------------
// Full roster plus guardian profiles (READ ONLY)
// --------------------------------------------------
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	children, err := s.repo.ListAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	seen := make(map[string]bool)
	var guardianIDs []string
	for _, c := range children {
		if c.GuardianID != "" && !seen[c.GuardianID] {
			seen[c.GuardianID] = true
			guardianIDs = append(guardianIDs, c.GuardianID)
		}
	}

	profiles, err := s.repo.ListProfiles(ctx, guardianIDs)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Children: children, Profiles: profiles}, nil
}
