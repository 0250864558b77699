package domain

import "context"

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendAnimeAdded announces a newly inserted anime
	SendAnimeAdded(ctx context.Context, anime Anime) error

	// SendError reports a failure that needs attention, such as a failed save
	SendError(ctx context.Context, err error) error
}
