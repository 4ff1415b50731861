package mockserver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gobarber/gobarber-client/internal/middleware"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/pkg/jwt"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/crypto/bcrypt"
)

const (
	rateLimitRPS   = 50
	rateLimitBurst = 100
	maxJSONBody    = 64 << 10
	// multipart overhead on top of the largest accepted avatar
	maxAvatarBody = maxAvatarSize + 64<<10
)

type account struct {
	user         models.User
	passwordHash []byte
	provider     bool
}

type avatarFile struct {
	contentType string
	data        []byte
}

// ObjectStore persists uploaded avatars outside the process and returns their public URL
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Server is an in-memory implementation of the profile API
type Server struct {
	mu       sync.RWMutex
	accounts map[string]*account
	avatars  map[string]avatarFile
	order    []string

	tokens  *jwt.TokenManager
	baseURL string

	objects        ObjectStore
	allowedOrigins []string
	serviceName    string
}

// Option configures a Server
type Option func(*Server)

// WithObjectStore stores avatars in store instead of serving them from memory
func WithObjectStore(store ObjectStore) Option {
	return func(s *Server) {
		s.objects = store
	}
}

// WithAllowedOrigins enables CORS for the given browser origins
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithServiceName sets the service name reported on server spans
func WithServiceName(name string) Option {
	return func(s *Server) {
		s.serviceName = name
	}
}

// New creates an empty server. baseURL is used to build avatar URLs.
func New(secret, baseURL string, opts ...Option) *Server {
	s := &Server{
		accounts:    make(map[string]*account),
		avatars:     make(map[string]avatarFile),
		tokens:      jwt.NewTokenManager(secret, "gobarber-mockapi", 24*time.Hour),
		baseURL:     strings.TrimRight(baseURL, "/"),
		serviceName: "gobarber-mockapi",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBaseURL changes the prefix of avatar URLs, e.g. once an httptest server is listening
func (s *Server) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimRight(baseURL, "/")
}

// AddUser seeds an account and returns it with a signed token
func (s *Server) AddUser(name, email, password string, provider bool) (models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{ID: uuid.NewString(), Name: name, Email: email}

	s.mu.Lock()
	s.accounts[u.ID] = &account{user: u, passwordHash: hash, provider: provider}
	s.order = append(s.order, u.ID)
	s.mu.Unlock()

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

// User returns the stored record for id
func (s *Server) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// Router builds the gin engine serving the profile API. Background work
// started for the router stops when ctx is done.
func (s *Server) Router(ctx context.Context) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.serviceName))
	router.Use(middleware.ObservabilityMiddleware())
	if len(s.allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  s.allowedOrigins,
			AllowMethods:  []string{"GET", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthcheck", s.healthcheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/files/:name", s.getAvatarFile)

	limiter := middleware.NewRateLimiter(ctx, rateLimitRPS, rateLimitBurst)

	authed := router.Group("/")
	authed.Use(limiter.Middleware(), middleware.BearerAuthMiddleware(s.tokens))
	authed.PUT("/profile", middleware.BodySizeLimitMiddleware(maxJSONBody), s.updateProfile)
	authed.PATCH("/users/avatar", middleware.BodySizeLimitMiddleware(maxAvatarBody), s.uploadAvatar)
	authed.GET("/providers", s.listProviders)

	return router
}

// saveAvatar keeps the file in the object store when one is configured and
// in memory otherwise, returning the URL clients should load it from
func (s *Server) saveAvatar(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if s.objects != nil {
		return s.objects.Put(ctx, "avatars/"+name, contentType, data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatars[name] = avatarFile{contentType: contentType, data: data}
	return s.baseURL + "/files/" + name, nil
}

// respondError sends an error JSON response and attaches the error to the gin context
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
	c.JSON(status, models.ErrorResponse{Error: message})
}
