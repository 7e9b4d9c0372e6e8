package services

import (
	"context"
	"fmt"

	"github.com/mydayapp/myday/internal/auth"
	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/models"
	"github.com/mydayapp/myday/internal/remote"
)

// ProfileService reads and updates the signed-in user's profile document.
type ProfileService interface {
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, displayName, username, bio string) error

	// CreateInitial writes the blank profile document right after sign-up.
	CreateInitial(ctx context.Context, uid, email string) error
}

type profileService struct {
	gateway remote.ProfileGateway
	session *auth.Session
}

func NewProfileService(gateway remote.ProfileGateway, session *auth.Session) ProfileService {
	return &profileService{gateway: gateway, session: session}
}

func (s *profileService) Get(ctx context.Context) (*models.User, error) {
	uid, ok := s.session.UserID()
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return s.gateway.GetProfile(ctx, uid)
}

func (s *profileService) Update(ctx context.Context, displayName, username, bio string) error {
	u, err := s.Get(ctx)
	if err != nil {
		return err
	}
	u.DisplayName = displayName
	u.Username = username
	u.Bio = bio
	if err := s.gateway.PutProfile(ctx, u); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *profileService) CreateInitial(ctx context.Context, uid, email string) error {
	u := &models.User{UID: uid, Email: email}
	if err := s.gateway.PutProfile(ctx, u); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}
