package services_test

import (
	"context"
	"sync"

	"github.com/gobarber/gobarber-client/internal/imagesource"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/stretchr/testify/mock"
)

// MockProfileAPI is a mock implementation of ProfileAPI, AvatarAPI and ProvidersAPI
type MockProfileAPI struct {
	mock.Mock
}

func (m *MockProfileAPI) UpdateProfile(ctx context.Context, token string, req *models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileAPI) UploadAvatar(ctx context.Context, token string, upload models.AvatarUpload) (*models.User, error) {
	args := m.Called(ctx, token, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileAPI) ListProviders(ctx context.Context, token string) ([]models.Provider, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Provider), args.Error(1)
}

// MockImageSource is a mock implementation of ImageSource
type MockImageSource struct {
	mock.Mock
}

func (m *MockImageSource) RequestImage(ctx context.Context, opts imagesource.Options) imagesource.Capture {
	args := m.Called(ctx, opts)
	return args.Get(0).(imagesource.Capture)
}

// MockNavigator is a mock implementation of Navigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) GoBack() {
	m.Called()
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(title string) {
	m.Called(title)
}

func (m *MockNotifier) Failure(title, message string) {
	m.Called(title, message)
}

// MockStore is a session.Store that records Update calls
type MockStore struct {
	mock.Mock
	mu      sync.Mutex
	current session.Session
}

func NewMockStore(current session.Session) *MockStore {
	return &MockStore{current: current}
}

func (m *MockStore) Current() session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *MockStore) Update(newSession session.Session) {
	m.Called(newSession)
	m.mu.Lock()
	m.current = newSession
	m.mu.Unlock()
}

// SignOut clears the session without going through Update, like a logout
// handled elsewhere in the app
func (m *MockStore) SignOut() {
	m.mu.Lock()
	m.current = session.Session{}
	m.mu.Unlock()
}
