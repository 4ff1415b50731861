package services_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gobarber/gobarber-client/internal/api"
	"github.com/gobarber/gobarber-client/internal/imagesource"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/services"
	"github.com/gobarber/gobarber-client/internal/validation"
	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/gobarber/gobarber-client/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func nullBodyClient(t *testing.T) *api.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "null")
	}))
	t.Cleanup(ts.Close)
	return api.NewClient(ts.URL, httpclient.NewStandardClient(5*time.Second))
}

func TestProfileService_Submit_NullResponseBody(t *testing.T) {
	store := NewMockStore(signedIn())
	notifier := new(MockNotifier)
	navigator := new(MockNavigator)
	notifier.On("Failure", services.ProfileUpdateFailedTitle, services.ProfileUpdateFailedDetail).Return().Once()

	service := services.NewProfileService(validation.NewEngine(), nullBodyClient(t), store, navigator, notifier)

	outcome, err := service.Submit(context.Background(), models.ProfileFormInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	assert.Equal(t, services.ProfileSubmitFailed, outcome.State)
	assert.ErrorIs(t, outcome.Cause, apperrors.ErrRemoteCall)
	assert.Equal(t, services.ProfileIdle, service.State())
	notifier.AssertNumberOfCalls(t, "Failure", 1)
	notifier.AssertNotCalled(t, "Success", mock.Anything)
	navigator.AssertNotCalled(t, "GoBack")
	store.AssertNotCalled(t, "Update", mock.Anything)
	assert.Equal(t, signedIn(), store.Current())
}

func TestAvatarService_ChangeAvatar_NullResponseBody(t *testing.T) {
	store := NewMockStore(signedIn())
	source := new(MockImageSource)
	notifier := new(MockNotifier)
	source.On("RequestImage", mock.Anything, mock.Anything).
		Return(imagesource.Captured("file:///tmp/me.jpg", "image/jpeg")).Once()
	notifier.On("Failure", services.AvatarUpdateFailedTitle, "").Return().Once()

	service := services.NewAvatarService(source, nullBodyClient(t), store, notifier).WithOpener(fakeOpener("jpeg-bytes"))

	outcome, err := service.ChangeAvatar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, services.AvatarUploadFailed, outcome.State)
	assert.ErrorIs(t, outcome.Cause, apperrors.ErrRemoteCall)
	notifier.AssertNumberOfCalls(t, "Failure", 1)
	store.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProfileService_Submit_NilUserWithoutError(t *testing.T) {
	f := newProfileFixture()
	f.api.On("UpdateProfile", mock.Anything, "test-token", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Failure", services.ProfileUpdateFailedTitle, services.ProfileUpdateFailedDetail).Return().Once()

	outcome, err := f.service.Submit(context.Background(), models.ProfileFormInput{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)

	assert.Equal(t, services.ProfileSubmitFailed, outcome.State)
	f.notifier.AssertNumberOfCalls(t, "Failure", 1)
	f.store.AssertNotCalled(t, "Update", mock.Anything)
}

func TestAvatarService_ChangeAvatar_NilUserWithoutError(t *testing.T) {
	f := newAvatarFixture()
	f.source.On("RequestImage", mock.Anything, mock.Anything).
		Return(imagesource.Captured("file:///tmp/me.jpg", "image/jpeg")).Once()
	f.api.On("UploadAvatar", mock.Anything, "test-token", mock.Anything).Return(nil, nil).Once()
	f.notifier.On("Failure", services.AvatarUpdateFailedTitle, "").Return().Once()

	outcome, err := f.service.ChangeAvatar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, services.AvatarUploadFailed, outcome.State)
	f.store.AssertNotCalled(t, "Update", mock.Anything)
}

func TestProfileService_Submit_SignedOutDuringCall(t *testing.T) {
	f := newProfileFixture()
	updated := &models.User{ID: "user-1", Name: "Ana Maria", Email: "ana@x.com"}

	f.api.On("UpdateProfile", mock.Anything, "test-token", mock.Anything).
		Run(func(mock.Arguments) { f.store.SignOut() }).
		Return(updated, nil).Once()
	f.notifier.On("Success", services.ProfileUpdatedTitle).Return().Once()
	f.navigator.On("GoBack").Return().Once()

	outcome, err := f.service.Submit(context.Background(), models.ProfileFormInput{Name: "Ana Maria", Email: "ana@x.com"})
	require.NoError(t, err)

	assert.Equal(t, services.ProfileSuccess, outcome.State)
	f.store.AssertNotCalled(t, "Update", mock.Anything)
	assert.True(t, f.store.Current().IsZero())
}

func TestAvatarService_ChangeAvatar_SignedOutDuringUpload(t *testing.T) {
	f := newAvatarFixture()
	avatarURL := "http://files/user-1.jpeg"
	updated := &models.User{ID: "user-1", Name: "Ana", Email: "ana@x.com", AvatarURL: &avatarURL}

	f.source.On("RequestImage", mock.Anything, mock.Anything).
		Return(imagesource.Captured("file:///tmp/me.jpg", "image/jpeg")).Once()
	f.api.On("UploadAvatar", mock.Anything, "test-token", mock.Anything).
		Run(func(mock.Arguments) { f.store.SignOut() }).
		Return(updated, nil).Once()

	outcome, err := f.service.ChangeAvatar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, services.AvatarUploaded, outcome.State)
	f.store.AssertNotCalled(t, "Update", mock.Anything)
	assert.True(t, f.store.Current().IsZero())
}
