package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	tests := []struct {
		name           string
		userIDParam    string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name:        "Success",
			userIDParam: "1",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "testuser"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			userIDParam:    "abc",
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Not Found",
			userIDParam: "99",
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("User", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{userRepo: mockRepo}
			app := fiber.New()
			app.Get("/users/:id", s.GetUser)

			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.userIDParam, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetAllUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything, 100, 0).Return([]models.User{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
	}, nil)

	s := &Server{userRepo: mockRepo}
	app := fiber.New()
	app.Get("/users", s.GetAllUsers)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var users []models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 2)
	mockRepo.AssertExpectations(t)
}

func TestGetMyAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "writer", Email: "writer@example.com"}, nil)

	s := &Server{userRepo: mockRepo}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/users/me", s.GetMyAccount)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "writer", user.Username)
}

func TestUpdateMyAccount(t *testing.T) {
	newApp := func(mockRepo *MockUserRepository) *fiber.App {
		s := &Server{userRepo: mockRepo}
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", uint(1))
			return c.Next()
		})
		app.Put("/users/me", s.UpdateMyAccount)
		return app
	}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "oldname"}, nil)
		mockRepo.On("GetByUsername", mock.Anything, "newname").Return(nil, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		app := newApp(mockRepo)
		body, _ := json.Marshal(map[string]string{"username": "newname"})
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, "newname", user.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Username Taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "oldname"}, nil)
		mockRepo.On("GetByUsername", mock.Anything, "taken").Return(&models.User{ID: 2, Username: "taken"}, nil)

		app := newApp(mockRepo)
		body, _ := json.Marshal(map[string]string{"username": "taken"})
		req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPromoteToAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == 2 && u.IsAdmin
	})).Return(nil)

	s := &Server{userRepo: mockRepo, config: &config.Config{Env: "production"}}
	app := fiber.New()
	app.Post("/users/:id/promote-admin", s.PromoteToAdmin)

	req := httptest.NewRequest(http.MethodPost, "/users/2/promote-admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "User promoted to admin", result.Message)
	assert.True(t, result.User.IsAdmin)
	mockRepo.AssertExpectations(t)
}

func TestDemoteFromAdmin_ProtectedRootAdmin(t *testing.T) {
	// In development the seeded root admin cannot be demoted; the repo is
	// never consulted.
	s := &Server{userRepo: new(MockUserRepository), config: &config.Config{Env: "development"}}
	app := fiber.New()
	app.Post("/users/:id/demote-admin", s.DemoteFromAdmin)

	req := httptest.NewRequest(http.MethodPost, "/users/1/demote-admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
