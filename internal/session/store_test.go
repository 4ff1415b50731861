package session_test

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestMemoryStore_UpdateReplacesWholeRecord(t *testing.T) {
	avatar := "https://cdn.example.com/old.jpeg"
	store := session.NewMemoryStore(session.Session{
		User:  models.User{ID: "user-1", Name: "Ana", Email: "ana@x.com", AvatarURL: &avatar},
		Token: "token",
	})

	next := store.Current().WithUser(models.User{ID: "user-1", Name: "Ana Maria", Email: "ana@x.com"})
	store.Update(next)

	current := store.Current()
	assert.Equal(t, "Ana Maria", current.User.Name)
	assert.Nil(t, current.User.AvatarURL)
	assert.Equal(t, "token", current.Token)
	assert.Equal(t, uint64(1), store.Revision())
}

func TestMemoryStore_SubscribeNotifiesListeners(t *testing.T) {
	store := session.NewMemoryStore(session.Session{})

	var got []string
	store.Subscribe(func(s session.Session) {
		got = append(got, s.User.Name)
	})

	store.Update(session.Session{User: models.User{ID: "1", Name: "first"}})
	store.Update(session.Session{User: models.User{ID: "1", Name: "second"}})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestMemoryStore_ConcurrentUpdatesLastWriterWins(t *testing.T) {
	store := session.NewMemoryStore(session.Session{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Update(session.Session{User: models.User{ID: "1", Name: "writer"}, Token: "t"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(50), store.Revision())
	assert.Equal(t, "writer", store.Current().User.Name)
}

func TestSession_TokenExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := session.Session{Token: signedToken(t, exp)}

	got, ok, err := s.TokenExpiresAt()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
	assert.False(t, s.TokenExpired(time.Now()))
	assert.True(t, s.TokenExpired(exp.Add(time.Minute)))
}

func TestSession_TokenExpiresAt_OpaqueToken(t *testing.T) {
	s := session.Session{Token: "not-a-jwt"}

	_, ok, err := s.TokenExpiresAt()
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, s.TokenExpired(time.Now()))
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	want := session.Session{
		User:  models.User{ID: "user-1", Name: "Ana", Email: "ana@x.com"},
		Token: "token",
	}

	require.NoError(t, session.SaveFile(path, want))

	got, err := session.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFile_Missing(t *testing.T) {
	got, err := session.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
