package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/container"
	handlers "github.com/DarieldonMedeiros/santander-bootcamp/internal/interface/http"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers into routes:
//
//	GET    /api/users
//	GET    /api/users/:id
//	POST   /api/users
//	PUT    /api/users/:id
//	DELETE /api/users/:id
//	GET    /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	readLimiter := middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil)
	writeLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	{
		users.GET("", readLimiter, m.Handler.List)
		users.GET("/search", readLimiter, m.Handler.Search)
		users.GET("/:id", readLimiter, m.Handler.Get)
		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:id", writeLimiter, m.Handler.Update)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
