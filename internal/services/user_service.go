package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apexeduai/vault-backend/internal/api/validate"
	"github.com/apexeduai/vault-backend/internal/media"
	"github.com/apexeduai/vault-backend/internal/models"
	repo "github.com/apexeduai/vault-backend/internal/repository"
)

const maxImageBytes = 5 << 20

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

type UserService struct {
	users repo.Users
	logs  repo.GameLogs
	media media.Store
	now   func() time.Time
}

func NewUserService(users repo.Users, logs repo.GameLogs, media media.Store) *UserService {
	return &UserService{users: users, logs: logs, media: media, now: time.Now}
}

// Authorize re-checks a token bearer against the stored record: the
// token alone is not enough, the account must still be active and
// inside its window. Users found lapsed are deactivated on the spot.
func (s *UserService) Authorize(ctx context.Context, phone string) (models.User, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrAccountInactive
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !u.IsActive {
		return models.User{}, ErrAccountInactive
	}
	if u.ExpiryDate != nil && !u.ExpiryDate.After(s.now().UTC()) {
		if err := s.users.Deactivate(ctx, u.ID); err != nil {
			slog.Warn("deactivate lapsed user", "user_id", u.ID, "err", err)
		}
		return models.User{}, ErrAccessExpired
	}
	return u, nil
}

// UpdateAvatar stores a new avatar image and drops the previous one.
func (s *UserService) UpdateAvatar(ctx context.Context, u models.User, filename, contentType string, data []byte) (models.User, error) {
	if len(data) > maxImageBytes {
		return models.User{}, ErrFileTooLong
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] || !strings.HasPrefix(contentType, "image/") {
		return models.User{}, ErrUnsupportedImage
	}

	url, err := s.media.Put(ctx, "avatars/"+uuid.NewString()+ext, contentType, data)
	if err != nil {
		return models.User{}, fmt.Errorf("store avatar: %w", err)
	}

	old := u.AvatarURL
	u.AvatarURL = &url
	if err := s.users.Update(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if old != nil {
		if err := s.media.Remove(ctx, *old); err != nil {
			slog.Warn("remove old avatar", "url", *old, "err", err)
		}
	}
	return u, nil
}

// LogGame records one answered question from the practice games.
func (s *UserService) LogGame(ctx context.Context, userID, gameTitle, question, answer string) error {
	_, err := s.logs.Create(ctx, models.GameLog{
		UserID:    userID,
		GameTitle: validate.SanitizeText(gameTitle, 200),
		Question:  validate.SanitizeText(question, 1000),
		Answer:    validate.SanitizeText(answer, 1000),
	})
	return err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) ListGameLogs(ctx context.Context) ([]models.GameLogEntry, error) {
	return s.logs.List(ctx)
}

// Deactivate ends a user's access immediately: the flag goes down and
// the window is closed so a re-login cannot resurrect it.
func (s *UserService) Deactivate(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	now := s.now().UTC()
	u.IsActive = false
	u.ExpiryDate = &now
	if err := s.users.Update(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Extend adds days to a user's window, restarting from now when the
// window has already lapsed.
func (s *UserService) Extend(ctx context.Context, id string, days int) (models.User, error) {
	if days <= 0 {
		return models.User{}, errors.New("days must be > 0")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	now := s.now().UTC()
	var expiry time.Time
	if u.HasActiveWindow(now) {
		expiry = u.ExpiryDate.Add(time.Duration(days) * 24 * time.Hour)
	} else {
		expiry = now.Add(time.Duration(days) * 24 * time.Hour)
	}
	u.ExpiryDate = &expiry
	u.IsActive = true
	if err := s.users.Update(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
