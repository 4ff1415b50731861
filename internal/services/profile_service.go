package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/gobarber/gobarber-client/internal/validation"
	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"github.com/gobarber/gobarber-client/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	ProfileUpdatedTitle       = "Profile updated successfully!"
	ProfileUpdateFailedTitle  = "Profile update failed"
	ProfileUpdateFailedDetail = "An error occurred while updating your profile, please try again"
)

// errEmptyIdentity stands in for a remote answer that carried no user record
var errEmptyIdentity = errors.New("empty response body")

// ErrSubmitInProgress is returned when Submit is called while another submit is running
var ErrSubmitInProgress = errors.New("profile update already in progress")

// ProfileState is a state of the profile update controller
type ProfileState int32

const (
	ProfileIdle ProfileState = iota
	ProfileValidating
	ProfileValidationFailed
	ProfileSubmitting
	ProfileSuccess
	ProfileSubmitFailed
)

func (s ProfileState) String() string {
	switch s {
	case ProfileValidating:
		return "validating"
	case ProfileValidationFailed:
		return "validation_failed"
	case ProfileSubmitting:
		return "submitting"
	case ProfileSuccess:
		return "success"
	case ProfileSubmitFailed:
		return "submit_failed"
	default:
		return "idle"
	}
}

// SubmitOutcome describes how a submit attempt resolved. Input is the
// submitted form, unchanged, so a failed attempt can be retried as is.
type SubmitOutcome struct {
	State       ProfileState
	Input       models.ProfileFormInput
	FieldErrors map[string]string
	User        *models.User
	// Cause is the remote failure behind ProfileSubmitFailed; it is never shown to the user
	Cause error
}

// ProfileService validates and submits profile edits
type ProfileService struct {
	engine    *validation.Engine
	api       ProfileAPI
	store     session.Store
	navigator Navigator
	notifier  Notifier

	state    atomic.Int32
	inFlight atomic.Bool
}

// NewProfileService creates the profile update controller. navigator and
// notifier may be nil.
func NewProfileService(
	engine *validation.Engine,
	api ProfileAPI,
	store session.Store,
	navigator Navigator,
	notifier Notifier,
) *ProfileService {
	if navigator == nil {
		navigator = noopNavigator{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ProfileService{
		engine:    engine,
		api:       api,
		store:     store,
		navigator: navigator,
		notifier:  notifier,
	}
}

// State returns the controller's current state
func (s *ProfileService) State() ProfileState {
	return ProfileState(s.state.Load())
}

func (s *ProfileService) transition(to ProfileState) {
	from := ProfileState(s.state.Swap(int32(to)))
	logger.Debug("Profile controller transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

// Submit validates input and, when valid, sends the minimal payload to the
// profile API once. Validation failures come back as FieldErrors without any
// network call; remote failures produce one generic failure signal. Either
// way the controller is idle again when Submit returns.
func (s *ProfileService) Submit(ctx context.Context, input models.ProfileFormInput) (*SubmitOutcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer s.inFlight.Store(false)
	defer s.transition(ProfileIdle)

	ctx, span := tracing.StartSpan(ctx, "profile.submit")
	defer span.End()

	s.transition(ProfileValidating)
	result, err := s.engine.Validate(input)
	if err != nil {
		span.RecordError(err)
		logger.LogError(err, "Profile validation engine misconfigured")
		return nil, fmt.Errorf("validate profile: %w", err)
	}

	if !result.OK() {
		s.transition(ProfileValidationFailed)
		metrics.ProfileUpdates.WithLabelValues("validation_failed").Inc()
		fieldErrors := validation.MapErrors(result.Errors)
		logger.Debug("Profile validation failed", zap.Int("fields", len(fieldErrors)))
		return &SubmitOutcome{
			State:       ProfileValidationFailed,
			Input:       input,
			FieldErrors: fieldErrors,
		}, nil
	}

	current := s.store.Current()
	if current.IsZero() {
		return nil, apperrors.ErrNoSession
	}

	payload := result.Fields.Payload()
	span.SetAttributes(attribute.Bool("profile.password_change", payload.HasPasswordChange()))

	s.transition(ProfileSubmitting)
	// once issued the update is not cancellable by the caller
	user, err := s.api.UpdateProfile(context.WithoutCancel(ctx), current.Token, payload)
	if err == nil && user == nil {
		err = apperrors.RemoteCallError("updateProfile", errEmptyIdentity)
	}
	if err != nil {
		s.transition(ProfileSubmitFailed)
		metrics.ProfileUpdates.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile update failed")
		logger.Error("Failed to update profile",
			zap.Error(err),
			zap.String("user_id", current.User.ID))

		s.notifier.Failure(ProfileUpdateFailedTitle, ProfileUpdateFailedDetail)
		return &SubmitOutcome{
			State: ProfileSubmitFailed,
			Input: input,
			Cause: err,
		}, nil
	}

	replaceIdentity(s.store, *user)

	s.transition(ProfileSuccess)
	metrics.ProfileUpdates.WithLabelValues("success").Inc()
	logger.Info("Profile updated",
		zap.String("user_id", user.ID),
		zap.Bool("password_changed", payload.HasPasswordChange()))

	s.notifier.Success(ProfileUpdatedTitle)
	s.navigator.GoBack()

	return &SubmitOutcome{
		State: ProfileSuccess,
		Input: input,
		User:  user,
	}, nil
}
