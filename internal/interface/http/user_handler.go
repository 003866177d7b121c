package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/DarieldonMedeiros/santander-bootcamp/internal/application"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
	"github.com/DarieldonMedeiros/santander-bootcamp/pkg/events"
	"github.com/DarieldonMedeiros/santander-bootcamp/pkg/helpers"
	"github.com/DarieldonMedeiros/santander-bootcamp/pkg/response"
	"github.com/DarieldonMedeiros/santander-bootcamp/pkg/validation"
)

// UserService is what the transport layer needs from the application core.
type UserService interface {
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	Update(ctx context.Context, id int64, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

var _ UserService = (*userapp.Service)(nil)

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
	Events *helpers.RabbitPublisher
}

func NewUserHandler(svc UserService, logger *logrus.Logger, pub *helpers.RabbitPublisher) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Events: pub}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserDTO(u))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewUserDTO(u), "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req UserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c, events.UserCreated, u.ID, u.Name)
	c.Header("Location", fmt.Sprintf("/api/users/%d", u.ID))
	response.Success(c, http.StatusCreated, NewUserDTO(u), "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, req.ToModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c, events.UserUpdated, u.ID, u.Name)
	response.Success(c, http.StatusOK, NewUserDTO(u), "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.publish(c, events.UserDeleted, id, "")
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

// fail maps the service error taxonomy onto HTTP statuses: NotFound to 404,
// business rule violations to 422, anything else to 500.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var berr *userapp.BusinessError
	switch {
	case errors.Is(err, userapp.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "resource not found", nil)
	case errors.As(err, &berr):
		response.Error[any](c, http.StatusUnprocessableEntity, berr.Reason, nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// publish emits an audit event, best-effort. A dead broker never fails the
// request; the write already happened.
func (h *UserHandler) publish(c *gin.Context, typ string, userID int64, name string) {
	if h.Events == nil {
		return
	}
	ev := events.NewUserEvent(typ, userID, name)
	if err := h.Events.PublishJSON(c.Request.Context(), ev); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("event", typ).Warn("event publish failed")
	}
}
