package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-account-portal/internal/domain"
)

type stubRepo struct {
	users   []domain.User
	deleted []string
}

func (r *stubRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (r *stubRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (r *stubRepo) FindDeviceByUserAgent(context.Context, string, string) (*domain.Device, error) {
	return nil, nil
}
func (r *stubRepo) List(_ context.Context, q domain.ListQuery) ([]domain.User, int64, error) {
	return r.users, int64(len(r.users)), nil
}
func (r *stubRepo) SoftDelete(_ context.Context, id string) error {
	for _, u := range r.users {
		if u.ID == id {
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func adminEngine(repo domain.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(repo, nil)
	r := gin.New()
	r.GET("/admin/v1/users", h.ListUsers)
	r.POST("/admin/v1/users/:id/ban", h.BanUser)
	return r
}

func TestListUsers(t *testing.T) {
	repo := &stubRepo{users: []domain.User{{
		ID:        "u1",
		Email:     "user@example.com",
		Birthdate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}}}

	rec := httptest.NewRecorder()
	adminEngine(repo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/v1/users?limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user@example.com")
	assert.Contains(t, rec.Body.String(), "2000-01-01")
}

func TestBanUser(t *testing.T) {
	repo := &stubRepo{users: []domain.User{{ID: "u1", Email: "user@example.com"}}}
	engine := adminEngine(repo)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/v1/users/u1/ban", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1"}, repo.deleted)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/v1/users/nope/ban", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
