package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"ledgerdesk/config"
	"ledgerdesk/internal/auth"
	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

// AuthService authenticates dashboard admins. Identity travels in JWT claims
// only; the ledger engines never see it.
type AuthService struct {
	cfg    *config.Config
	admins storage.AdminStore
	log    *logrus.Logger
}

func NewAuthService(cfg *config.Config, admins storage.AdminStore, log *logrus.Logger) *AuthService {
	return &AuthService{cfg: cfg, admins: admins, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.Admin, string, string, error) {
	_, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", "", domain.ErrAdminAlreadyExists
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, "", "", err
	}
	s.log.WithField("email", email).Info("admin registered")

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, admin.ID, admin.Email, domain.RoleAdmin)
	if err != nil {
		return admin, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, admin.ID)
	if err != nil {
		return admin, access, "", err
	}
	return admin, access, refresh, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Admin, string, string, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, "", "", domain.ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", domain.ErrInvalidCredentials
	}

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, admin.ID, admin.Email, domain.RoleAdmin)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, admin.ID)
	if err != nil {
		return nil, "", "", err
	}
	s.log.WithField("email", email).Info("admin logged in")
	return admin, access, refresh, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	adminID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	admin, err := s.admins.Find(ctx, adminID)
	if err != nil {
		return "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, admin.ID, admin.Email, domain.RoleAdmin)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, admin.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, adminID uint, current, next string) error {
	admin, err := s.admins.Find(ctx, adminID)
	if err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin.PasswordHash = string(hash)
	return s.admins.Update(ctx, admin)
}
