package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"user_manager/internal/models"
	"user_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockUsers struct {
	count    int
	countErr error
	list     []models.User
	listErr  error

	user   *models.User
	getErr error

	createErr error
	updateErr error
	deleteErr error

	lastID       string
	lastCreate   service.NewUserParams
	lastUsername string
	lastPassword string
	createCalls  int
	updateCalls  int
	deleteCalls  int
}

func (m *mockUsers) Count(ctx context.Context) (int, error) {
	return m.count, m.countErr
}

func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	return m.list, m.listErr
}

func (m *mockUsers) Get(ctx context.Context, id string) (*models.User, error) {
	m.lastID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUsers) GetPublic(ctx context.Context, id string) (*models.User, error) {
	m.lastID = id
	if m.getErr != nil {
		return nil, m.getErr
	}
	pub := *m.user
	pub.Password = ""
	return &pub, nil
}

func (m *mockUsers) Create(ctx context.Context, p service.NewUserParams) (*models.User, error) {
	m.createCalls++
	m.lastCreate = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.User{ID: "new-id", Username: p.Username, Email: p.Email, Password: p.Password}, nil
}

func (m *mockUsers) UpdateUsername(ctx context.Context, id, username, password string) (*models.User, error) {
	m.updateCalls++
	m.lastID, m.lastUsername, m.lastPassword = id, username, password
	return m.user, m.updateErr
}

func (m *mockUsers) Delete(ctx context.Context, id, password string) (*models.User, error) {
	m.deleteCalls++
	m.lastID, m.lastPassword = id, password
	return m.user, m.deleteErr
}

type mockStats struct {
	stats models.UserStats
	err   error
	calls int
}

func (m *mockStats) GetStats(ctx context.Context) (models.UserStats, error) {
	m.calls++
	return m.stats, m.err
}

type mockAuditLog struct {
	resp  []models.UserEvent
	err   error
	last  service.LogFilter
	calls int
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.UserEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).InitRoutes()
}

// postForm builds a urlencoded POST, the way a browser submits the views' forms.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
