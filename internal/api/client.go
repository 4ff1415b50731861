package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/pkg/circuitbreaker"
	apperrors "github.com/gobarber/gobarber-client/pkg/errors"
	"github.com/gobarber/gobarber-client/pkg/httpclient"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"github.com/gobarber/gobarber-client/pkg/retry"
	"github.com/gobarber/gobarber-client/pkg/tracing"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	// AvatarField is the multipart field name expected by PATCH /users/avatar
	AvatarField = "avatar"

	maxErrorBody = 4 << 10
)

var errEmptyResponse = errors.New("empty response body")

// Client talks to the profile API
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
	retryCfg   retry.Config
}

// NewClient creates a profile API client for baseURL
func NewClient(baseURL string, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("profile-api")),
		retryCfg:   retry.ProvidersConfig(),
	}
}

// WithRetryConfig overrides the retry policy used for idempotent reads
func (c *Client) WithRetryConfig(cfg retry.Config) *Client {
	c.retryCfg = cfg
	return c
}

// UpdateProfile sends PUT /profile and returns the updated identity record
func (c *Client) UpdateProfile(ctx context.Context, token string, req *models.UpdateProfileRequest) (*models.User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Sprintf("encode profile request: %v", err))
	}

	return execute[*models.User](ctx, c, call{
		operation:   "updateProfile",
		method:      http.MethodPut,
		path:        "/profile",
		token:       token,
		contentType: "application/json",
		body:        body,
	})
}

// UploadAvatar sends PATCH /users/avatar with a single multipart file field
func (c *Client) UploadAvatar(ctx context.Context, token string, upload models.AvatarUpload) (*models.User, error) {
	body, contentType, err := encodeAvatar(upload)
	if err != nil {
		return nil, err
	}

	return execute[*models.User](ctx, c, call{
		operation:   "uploadAvatar",
		method:      http.MethodPatch,
		path:        "/users/avatar",
		token:       token,
		contentType: contentType,
		body:        body,
	})
}

// ListProviders fetches GET /providers, retrying transient failures
func (c *Client) ListProviders(ctx context.Context, token string) ([]models.Provider, error) {
	return retry.DoWithResult(ctx, c.retryCfg, "listProviders", func() ([]models.Provider, error) {
		return execute[[]models.Provider](ctx, c, call{
			operation: "listProviders",
			method:    http.MethodGet,
			path:      "/providers",
			token:     token,
		})
	})
}

func encodeAvatar(upload models.AvatarUpload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, AvatarField, upload.FileName))
	header.Set("Content-Type", upload.MimeType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", apperrors.InternalError(fmt.Sprintf("create avatar part: %v", err))
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return nil, "", fmt.Errorf("failed to read avatar content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", apperrors.InternalError(fmt.Sprintf("close avatar body: %v", err))
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

type call struct {
	operation   string
	method      string
	path        string
	token       string
	contentType string
	body        []byte
}

// execute runs one HTTP exchange behind the circuit breaker and decodes the
// JSON response into T
func execute[T any](ctx context.Context, c *Client, cl call) (T, error) {
	ctx, span := tracing.StartSpan(ctx, "api."+cl.operation,
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.path))
	defer span.End()

	start := time.Now()
	result, err := circuitbreaker.Execute(c.breaker, func() (T, error) {
		return roundTrip[T](ctx, c, cl)
	})
	duration := metrics.MeasureDuration(start)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.APIRequestDuration.WithLabelValues(cl.operation, status).Observe(duration)
	metrics.APIRequestTotal.WithLabelValues(cl.operation, status).Inc()

	fields := []zap.Field{zap.String("method", cl.method), zap.String("path", cl.path)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(cl.operation, status, duration, fields...)

	return result, err
}

func roundTrip[T any](ctx context.Context, c *Client, cl call) (T, error) {
	var zero T

	var body io.Reader = http.NoBody
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return zero, apperrors.InternalError(fmt.Sprintf("build %s request: %v", cl.operation, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, apperrors.RemoteCallError(cl.operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort for logs
		return zero, &apperrors.StatusError{
			Operation:  cl.operation,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	var result T
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return zero, apperrors.RemoteCallError(cl.operation, fmt.Errorf("decode response: %w", err))
	}
	// a 2xx `null` decodes without error; callers rely on a usable identity record
	if u, ok := any(result).(*models.User); ok && (u == nil || u.ID == "") {
		return zero, apperrors.RemoteCallError(cl.operation, errEmptyResponse)
	}
	return result, nil
}
