package services

import (
	"context"

	"github.com/gobarber/gobarber-client/internal/imagesource"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"go.uber.org/zap"
)

// ProfileAPI is the remote profile update endpoint
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, token string, req *models.UpdateProfileRequest) (*models.User, error)
}

// AvatarAPI is the remote avatar upload endpoint
type AvatarAPI interface {
	UploadAvatar(ctx context.Context, token string, upload models.AvatarUpload) (*models.User, error)
}

// ProvidersAPI lists service providers
type ProvidersAPI interface {
	ListProviders(ctx context.Context, token string) ([]models.Provider, error)
}

// ImageSource asks the user for an image and suspends until they answer,
// decline, or the device facility fails
type ImageSource interface {
	RequestImage(ctx context.Context, opts imagesource.Options) imagesource.Capture
}

// Navigator leaves the current screen
type Navigator interface {
	GoBack()
}

// Notifier shows user-facing signals. Messages are generic; causes are only logged.
type Notifier interface {
	Success(title string)
	Failure(title, message string)
}

// ProfileServiceInterface defines the profile update controller
type ProfileServiceInterface interface {
	Submit(ctx context.Context, input models.ProfileFormInput) (*SubmitOutcome, error)
	State() ProfileState
}

// AvatarServiceInterface defines the avatar capture flow
type AvatarServiceInterface interface {
	ChangeAvatar(ctx context.Context) (*AvatarOutcome, error)
	State() AvatarState
}

// ProviderServiceInterface defines provider listing
type ProviderServiceInterface interface {
	List(ctx context.Context) ([]models.Provider, error)
}

// replaceIdentity swaps the user record of the current session. A session
// cleared while the request was in flight stays cleared.
func replaceIdentity(store session.Store, u models.User) {
	latest := store.Current()
	if latest.IsZero() {
		logger.Warn("Session ended during remote call, dropping updated identity",
			zap.String("user_id", u.ID))
		return
	}
	store.Update(latest.WithUser(u))
}

type noopNavigator struct{}

func (noopNavigator) GoBack() {}

type noopNotifier struct{}

func (noopNotifier) Success(string)         {}
func (noopNotifier) Failure(string, string) {}

// Ensure services implement their interfaces
var _ ProfileServiceInterface = (*ProfileService)(nil)
var _ AvatarServiceInterface = (*AvatarService)(nil)
var _ ProviderServiceInterface = (*ProviderService)(nil)
