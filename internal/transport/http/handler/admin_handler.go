package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-account-portal/internal/core/cache"
	"go-account-portal/internal/domain"
	resp "go-account-portal/internal/transport/http/response"
)

type AdminHandler struct {
	repo  domain.UserRepository
	cache *cache.Cache // 可为 nil
}

func NewAdminHandler(repo domain.UserRepository, ch *cache.Cache) *AdminHandler {
	return &AdminHandler{repo: repo, cache: ch}
}

type listUsersQuery struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`            // 按 email 模糊搜
	WithDeleted bool   `form:"with_deleted"` // 是否包含软删
}

type userRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Birthdate string    `json:"birthdate"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListUsers GET /admin/v1/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}

	users, total, err := h.repo.List(c.Request.Context(), domain.ListQuery{
		Offset:      q.Offset,
		Limit:       q.Limit,
		Q:           q.Q,
		WithDeleted: q.WithDeleted,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "list users failed"))
		return
	}

	items := make([]userRow, 0, len(users))
	for _, u := range users {
		items = append(items, userRow{
			ID:        u.ID,
			Email:     u.Email,
			Birthdate: u.Birthdate.Format("2006-01-02"),
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"total": total, "items": items}))
}

// BanUser POST /admin/v1/users/:id/ban 软删用户并级联设备
func (h *AdminHandler) BanUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "missing id"))
		return
	}

	err := h.repo.SoftDelete(c.Request.Context(), id)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "user not found"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "ban user failed"))
	default:
		if h.cache != nil {
			// 被封用户的会话在缓存过期后立即失效
			h.cache.Invalidate(c.Request.Context(), "user:"+id)
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
	}
}
