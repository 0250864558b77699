package notification

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/varoOP/animecatalog/internal/domain"
)

// Service is a composite notification service that can send notifications
// through multiple channels
type Service struct {
	discord *DiscordService
}

// NewService creates a new notification service. Without a webhook URL
// every send is a no-op.
func NewService(log zerolog.Logger, webhookURL string) domain.NotificationService {
	var discord *DiscordService
	if webhookURL != "" {
		discord = NewDiscordService(log, webhookURL)
	}

	return &Service{
		discord: discord,
	}
}

func (s *Service) SendAnimeAdded(ctx context.Context, anime domain.Anime) error {
	if s.discord != nil {
		if err := s.discord.SendAnimeAdded(ctx, anime); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) SendError(ctx context.Context, err error) error {
	if s.discord != nil {
		if err := s.discord.SendError(ctx, err); err != nil {
			return err
		}
	}
	return nil
}
