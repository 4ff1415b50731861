package mockserver

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gobarber/gobarber-client/internal/middleware"
	"github.com/gobarber/gobarber-client/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const maxAvatarSize = 5 << 20

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func parseValidationErrors(err error) []ValidationError {
	var out []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Message: fe.Field() + " failed on " + fe.Tag(),
			})
		}
	}

	return out
}

func (s *Server) updateProfile(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err) //nolint:errcheck
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: parseValidationErrors(err),
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: []ValidationError{{Field: "Name", Message: "Name failed on notblank"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		respondError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	for id, other := range s.accounts {
		if id != userID && strings.EqualFold(other.user.Email, req.Email) {
			respondError(c, http.StatusBadRequest, "E-mail already in use", nil)
			return
		}
	}

	if req.HasPasswordChange() {
		if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.OldPassword)); err != nil {
			respondError(c, http.StatusBadRequest, "Old password does not match", err)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update password", err)
			return
		}
		acc.passwordHash = hash
	}

	acc.user.Name = req.Name
	acc.user.Email = req.Email

	c.JSON(http.StatusOK, acc.user)
}

func (s *Server) uploadAvatar(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Avatar file is required", err)
		return
	}
	if fileHeader.Size > maxAvatarSize {
		respondError(c, http.StatusRequestEntityTooLarge, "Avatar file is too large", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "Avatar must be an image", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read avatar", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read avatar", err)
		return
	}

	name := path.Base(fileHeader.Filename)

	if _, ok := s.User(userID); !ok {
		respondError(c, http.StatusNotFound, "User not found", nil)
		return
	}

	url, err := s.saveAvatar(c.Request.Context(), name, contentType, data)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store avatar", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		respondError(c, http.StatusNotFound, "User not found", nil)
		return
	}
	acc.user.AvatarURL = &url

	c.JSON(http.StatusOK, acc.user)
}

func (s *Server) listProviders(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	s.mu.RLock()
	defer s.mu.RUnlock()

	providers := []models.Provider{}
	for _, id := range s.order {
		acc := s.accounts[id]
		if !acc.provider || id == userID {
			continue
		}
		providers = append(providers, models.Provider{
			ID:        acc.user.ID,
			Name:      acc.user.Name,
			AvatarURL: acc.user.Avatar(),
		})
	}

	c.JSON(http.StatusOK, providers)
}

func (s *Server) getAvatarFile(c *gin.Context) {
	s.mu.RLock()
	file, ok := s.avatars[c.Param("name")]
	s.mu.RUnlock()

	if !ok {
		respondError(c, http.StatusNotFound, "File not found", nil)
		return
	}
	c.Data(http.StatusOK, file.contentType, file.data)
}

func (s *Server) healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	s.mu.RLock()
	users := len(s.accounts)
	s.mu.RUnlock()

	if users == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "no users seeded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"users":  users,
	})
}
