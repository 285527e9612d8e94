package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"microblog/internal/middleware"
	"microblog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	validFields := func() map[string]string {
		return map[string]string{
			"name":     "testuser",
			"surname":  "Tester",
			"email":    "test@example.com",
			"password": "Password123!",
		}
	}

	tests := []struct {
		name           string
		fields         map[string]string
		imageName      string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name:      "Success",
			fields:    validFields(),
			imageName: "avatar.png",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByName", mock.Anything, "testuser").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "Duplicate Name",
			fields:    validFields(),
			imageName: "avatar.png",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByName", mock.Anything, "testuser").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:      "Duplicate Email",
			fields:    validFields(),
			imageName: "avatar.png",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByName", mock.Anything, "testuser").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(&models.User{ID: 2}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Invalid Email",
			fields: map[string]string{
				"name":     "testuser",
				"surname":  "Tester",
				"email":    "not-an-email",
				"password": "Password123!",
			},
			imageName:      "avatar.png",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Short Password",
			fields: map[string]string{
				"name":     "testuser",
				"surname":  "Tester",
				"email":    "test@example.com",
				"password": "abc",
			},
			imageName:      "avatar.png",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Image",
			fields:         validFields(),
			imageName:      "",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "Disallowed Image Extension",
			fields:    validFields(),
			imageName: "payload.exe",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByName", mock.Anything, "testuser").Return(nil, nil)
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newTestServer(t, mockRepo, nil)

			app := fiber.New()
			app.Post("/register", s.Register)

			body, contentType := multipartForm(t, tt.fields, tt.imageName)
			req := httptest.NewRequest(http.MethodPost, "/register", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRegisterStorageFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByName", mock.Anything, "testuser").Return(nil, nil)
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)

	s := newTestServer(t, mockRepo, nil)
	// Knock the upload directory out from under the store so the write fails
	require.NoError(t, os.RemoveAll(s.uploads.Dir()))

	app := fiber.New()
	app.Post("/register", s.Register)

	body, contentType := multipartForm(t, map[string]string{
		"name":     "testuser",
		"surname":  "Tester",
		"email":    "test@example.com",
		"password": "Password123!",
	}, "avatar.png")
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// The body stays generic; the filesystem path belongs in the logs only
	var payload models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Internal server error", payload.Error)
	assert.NotContains(t, payload.Error, s.uploads.Dir())
	mockRepo.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	require.NoError(t, err)
	storedUser := &models.User{
		ID:       1,
		Name:     "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockUserRepository)
		expectedStatus int
		wantCookie     bool
	}{
		{
			name: "Success",
			body: map[string]string{"email": "test@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
			},
			expectedStatus: http.StatusOK,
			wantCookie:     true,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "test@example.com", "password": "nope-wrong"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "ghost@example.com", "password": "Password123!"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Missing Password",
			body: map[string]string{"email": "test@example.com"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			// Unknown email wins over the missing password: the lookup runs first.
			name: "Unknown Email And Missing Password",
			body: map[string]string{"email": "ghost@example.com"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			s := newTestServer(t, mockRepo, nil)

			app := fiber.New()
			app.Post("/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var sessionCookie *http.Cookie
			for _, ck := range resp.Cookies() {
				if ck.Name == middleware.SessionCookie {
					sessionCookie = ck
				}
			}
			if tt.wantCookie {
				require.NotNil(t, sessionCookie)
				assert.NotEmpty(t, sessionCookie.Value)
				assert.True(t, sessionCookie.HttpOnly)
			} else {
				assert.Nil(t, sessionCookie)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLoginResponseOmitsPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(&models.User{
		ID:       1,
		Name:     "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
	}, nil)

	s := newTestServer(t, mockRepo, nil)
	app := fiber.New()
	app.Post("/login", s.Login)

	body, _ := json.Marshal(map[string]string{"email": "test@example.com", "password": "Password123!"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, user, "password")
	assert.Equal(t, "testuser", user["name"])
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t, new(MockUserRepository), nil)
	app := fiber.New()
	app.Get("/logout", s.Logout)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Empty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.Expires.Before(time.Now()))
}
