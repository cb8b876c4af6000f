package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

type Service struct {
	repo UserRepository
	log  *logger.Logger
}

func NewService(repo UserRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log.With("service", "auth")}
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	Role       string
	SchoolCode string
}

// REGISTER
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" || in.Password == "" || in.SchoolCode == "" {
		return nil, ErrMissingFields
	}

	if in.Role == "" {
		in.Role = RoleParent
	}
	if !ValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(in.Password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName:   in.FullName,
		Email:      in.Email,
		Password:   string(hashedPassword),
		Role:       in.Role,
		SchoolCode: in.SchoolCode,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("account registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// LOGIN
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
