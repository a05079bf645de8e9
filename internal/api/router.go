package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/mw"
	"designer-dashboard-backend/internal/reactive"
)

// NewRouter creates and configures a new Gin router. ws serves /api/ws
// when it is not nil.
func NewRouter(cfg config.ServerConfig, handler *Handler, ws http.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(log), mw.Metrics(), mw.CORS(cfg.CORSOrigins))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	responses := mw.NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	caching := responses.Serve()

	// Writes that bypass HTTP, such as drag commits, must not leave stale reads behind.
	flush := func(ev reactive.Event) {
		if ev.Op != reactive.OpLoad {
			responses.Flush()
		}
	}
	handler.designers.Subscribe(flush)
	handler.objects.Subscribe(flush)

	r.GET("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter, responses.Invalidate())
	{
		api.GET("/designers", caching, handler.GetDesigners)
		api.POST("/designers", handler.CreateDesigner)
		api.DELETE("/designers/:id", handler.DeleteDesigner)

		api.GET("/objects", caching, handler.GetObjects)
		api.POST("/objects", handler.CreateObject)
		api.PATCH("/objects/:id", handler.UpdateObject)
		api.DELETE("/objects/:id", handler.DeleteObject)

		if ws != nil {
			api.GET("/ws", gin.WrapH(ws))
		}
	}

	return r
}
