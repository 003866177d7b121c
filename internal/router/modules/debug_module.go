package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/container"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, rate-limited per IP; internal clients bypass the limit
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
