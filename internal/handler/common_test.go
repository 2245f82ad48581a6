package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/model"
	"github.com/gokulprasathd90/event-ticketing/internal/service"
	"github.com/gokulprasathd90/event-ticketing/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", time.Hour)
}

func bearerToken(t *testing.T, tokens *auth.TokenManager, userID uuid.UUID, role model.Role) string {
	t.Helper()
	token, err := tokens.Issue(userID, string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, w.Code, w.Body.String())
	}
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, params service.RegisterParams) (*model.User, string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockAuthService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateUserParams) (*model.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	args := m.Called(ctx, userID, current, next)
	return args.Error(0)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) Create(ctx context.Context, organizerID uuid.UUID, params service.CreateEventParams) (*model.Event, error) {
	args := m.Called(ctx, organizerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventService) GetPublished(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventService) ListPublished(ctx context.Context, filter model.EventFilter, page, limit int) ([]*model.Event, model.Pagination, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(model.Pagination), args.Error(2)
	}
	return args.Get(0).([]*model.Event), args.Get(1).(model.Pagination), args.Error(2)
}

func (m *mockEventService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *mockEventService) Update(ctx context.Context, id, organizerID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, id, organizerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventService) Delete(ctx context.Context, id, organizerID uuid.UUID) error {
	args := m.Called(ctx, id, organizerID)
	return args.Error(0)
}

func (m *mockEventService) Stats(ctx context.Context, id, organizerID uuid.UUID) (*model.EventStats, error) {
	args := m.Called(ctx, id, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventStats), args.Error(1)
}

type mockRegistrationService struct {
	mock.Mock
}

func (m *mockRegistrationService) Reserve(ctx context.Context, userID uuid.UUID, req model.CreateRegistrationRequest) (*model.Registration, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationService) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockRegistrationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockRegistrationService) Confirm(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationService) UpdateSpecialRequests(ctx context.Context, id, userID uuid.UUID, text *string) (*model.Registration, error) {
	args := m.Called(ctx, id, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationService) CheckIn(ctx context.Context, id, organizerID uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, id, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *mockRegistrationService) ListForUser(ctx context.Context, userID uuid.UUID, status model.RegistrationStatus, page, limit int) ([]*model.Registration, model.Pagination, error) {
	args := m.Called(ctx, userID, status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(model.Pagination), args.Error(2)
	}
	return args.Get(0).([]*model.Registration), args.Get(1).(model.Pagination), args.Error(2)
}

func (m *mockRegistrationService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}
