package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"portfolio/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func doRequest(t *testing.T, guard *Guard, roles []model.Role, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	mws := []echo.MiddlewareFunc{guard.Authenticate(), guard.ResolveUser()}
	if len(roles) > 0 {
		mws = append(mws, guard.RequireRoles(roles...))
	}
	e.GET("/protected", okHandler, mws...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGuard_Authenticate(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	admin := &model.User{ID: 1, FullName: "Admin User", Role: model.RoleAdmin}
	token, err := jwtService.GenerateToken(admin.ID)
	assert.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		setupMock   func(*MockUserRepository)
		roles       []model.Role
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing token",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized, no token provided",
		},
		{
			name:        "garbage token",
			authHeader:  "Bearer not-a-token",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized, token failed",
		},
		{
			name:       "user no longer exists",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Not authorized, user not found",
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role allowed",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)
			},
			roles:      []model.Role{model.RoleEditor, model.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role rejected",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(
					&model.User{ID: 1, FullName: "Plain User", Role: model.RoleUser}, nil)
			},
			roles:       []model.Role{model.RoleEditor, model.RoleAdmin},
			wantStatus:  http.StatusForbidden,
			wantMessage: "Role user is not authorized to access this resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}
			guard := NewGuard(jwtService, mockRepo)

			rec := doRequest(t, guard, tt.roles, tt.authHeader)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantMessage != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMessage, body["message"])
			} else {
				assert.Equal(t, true, body["success"])
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGuard_OptionalAuthenticate(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	editor := &model.User{ID: 2, FullName: "Editor", Role: model.RoleEditor}
	token, err := jwtService.GenerateToken(editor.ID)
	assert.NoError(t, err)

	echoHandler := func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, string(user.Role))
	}

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(*MockUserRepository)
		wantBody   string
	}{
		{name: "no header stays anonymous", wantBody: "anonymous"},
		{name: "invalid token stays anonymous", authHeader: "Bearer garbage", wantBody: "anonymous"},
		{
			name:       "valid token resolves caller",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(editor, nil)
			},
			wantBody: "editor",
		},
		{
			name:       "deleted user stays anonymous",
			authHeader: "Bearer " + token,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
			},
			wantBody: "anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			if tt.setupMock != nil {
				tt.setupMock(mockRepo)
			}
			guard := NewGuard(jwtService, mockRepo)

			e := echo.New()
			e.GET("/articles", echoHandler, guard.OptionalAuthenticate())

			req := httptest.NewRequest(http.MethodGet, "/articles", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			mockRepo.AssertExpectations(t)
		})
	}
}
