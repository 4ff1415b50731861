package services

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/gobarber/gobarber-client/internal/imagesource"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"github.com/gobarber/gobarber-client/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	// AvatarMimeType is sent for every avatar regardless of the captured format
	AvatarMimeType = "image/jpeg"

	AvatarUpdateFailedTitle = "Failed to update your avatar."
)

// ErrAvatarInProgress is returned when ChangeAvatar is called while another capture is running
var ErrAvatarInProgress = errors.New("avatar update already in progress")

// AvatarState is a state of the avatar capture flow
type AvatarState int32

const (
	AvatarIdle AvatarState = iota
	AvatarAwaitingSourceSelection
	AvatarCancelled
	AvatarSourceError
	AvatarCaptured
	AvatarUploading
	AvatarUploaded
	AvatarUploadFailed
)

func (s AvatarState) String() string {
	switch s {
	case AvatarAwaitingSourceSelection:
		return "awaiting_source_selection"
	case AvatarCancelled:
		return "cancelled"
	case AvatarSourceError:
		return "source_error"
	case AvatarCaptured:
		return "captured"
	case AvatarUploading:
		return "uploading"
	case AvatarUploaded:
		return "uploaded"
	case AvatarUploadFailed:
		return "upload_failed"
	default:
		return "idle"
	}
}

// AvatarOutcome describes how one capture flow resolved
type AvatarOutcome struct {
	State  AvatarState
	Asset  *models.AvatarAsset
	User   *models.User
	Reason string
	Cause  error
}

// AssetOpener returns the bytes behind a captured image URI
type AssetOpener func(uri string) (io.ReadCloser, error)

// AvatarService runs the capture-and-upload flow
type AvatarService struct {
	source   ImageSource
	api      AvatarAPI
	store    session.Store
	notifier Notifier
	options  imagesource.Options
	open     AssetOpener

	state    atomic.Int32
	inFlight atomic.Bool
}

// NewAvatarService creates the avatar capture flow
func NewAvatarService(source ImageSource, api AvatarAPI, store session.Store, notifier Notifier) *AvatarService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &AvatarService{
		source:   source,
		api:      api,
		store:    store,
		notifier: notifier,
		options:  imagesource.DefaultOptions(),
		open:     imagesource.Open,
	}
}

// WithOptions sets the labels shown by the image source
func (s *AvatarService) WithOptions(opts imagesource.Options) *AvatarService {
	s.options = opts
	return s
}

// WithOpener replaces how captured URIs are read
func (s *AvatarService) WithOpener(open AssetOpener) *AvatarService {
	s.open = open
	return s
}

// State returns the flow's current state
func (s *AvatarService) State() AvatarState {
	return AvatarState(s.state.Load())
}

func (s *AvatarService) transition(to AvatarState) {
	from := AvatarState(s.state.Swap(int32(to)))
	logger.Debug("Avatar flow transition",
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

// ChangeAvatar asks for an image and uploads it. Cancellation is silent;
// source and upload failures produce one generic failure signal and leave
// the session unchanged.
func (s *AvatarService) ChangeAvatar(ctx context.Context) (*AvatarOutcome, error) {
	current := s.store.Current()
	if current.IsZero() {
		return nil, apperrors.ErrNoSession
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAvatarInProgress
	}
	defer s.inFlight.Store(false)
	defer s.transition(AvatarIdle)

	ctx, span := tracing.StartSpan(ctx, "avatar.change")
	defer span.End()

	s.transition(AvatarAwaitingSourceSelection)
	capture := s.source.RequestImage(ctx, s.options)
	span.SetAttributes(attribute.String("avatar.capture", capture.Outcome.String()))

	switch capture.Outcome {
	case imagesource.OutcomeCaptured:
	case imagesource.OutcomeSourceError:
		s.transition(AvatarSourceError)
		metrics.AvatarUploads.WithLabelValues("source_error").Inc()
		err := apperrors.CaptureSourceError(capture.Reason)
		logger.Warn("Image source failed", zap.Error(err))
		s.notifier.Failure(AvatarUpdateFailedTitle, "")
		return &AvatarOutcome{State: AvatarSourceError, Reason: capture.Reason, Cause: err}, nil
	default:
		s.transition(AvatarCancelled)
		metrics.AvatarUploads.WithLabelValues("cancelled").Inc()
		return &AvatarOutcome{State: AvatarCancelled}, nil
	}

	// identity is read again: a profile update may have landed while the prompt was open
	current = s.store.Current()
	asset := &models.AvatarAsset{
		URI:      capture.URI,
		MimeType: AvatarMimeType,
		FileName: current.User.ID + ".jpeg",
	}
	s.transition(AvatarCaptured)

	s.transition(AvatarUploading)
	user, err := s.upload(context.WithoutCancel(ctx), current, asset)
	if err == nil && user == nil {
		err = apperrors.RemoteCallError("uploadAvatar", errEmptyIdentity)
	}
	if err != nil {
		s.transition(AvatarUploadFailed)
		metrics.AvatarUploads.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "avatar upload failed")
		logger.Error("Failed to upload avatar",
			zap.Error(err),
			zap.String("user_id", current.User.ID))

		s.notifier.Failure(AvatarUpdateFailedTitle, "")
		return &AvatarOutcome{State: AvatarUploadFailed, Asset: asset, Cause: err}, nil
	}

	replaceIdentity(s.store, *user)

	s.transition(AvatarUploaded)
	metrics.AvatarUploads.WithLabelValues("success").Inc()
	logger.Info("Avatar uploaded",
		zap.String("user_id", user.ID),
		zap.String("avatar_url", user.Avatar()))

	return &AvatarOutcome{State: AvatarUploaded, Asset: asset, User: user}, nil
}

func (s *AvatarService) upload(ctx context.Context, current session.Session, asset *models.AvatarAsset) (*models.User, error) {
	content, err := s.open(asset.URI)
	if err != nil {
		return nil, err
	}
	defer content.Close()

	return s.api.UploadAvatar(ctx, current.Token, models.AvatarUpload{
		FileName: asset.FileName,
		MimeType: asset.MimeType,
		Content:  content,
	})
}
