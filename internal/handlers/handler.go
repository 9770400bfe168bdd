package handlers

import (
	"net/http"

	"user_manager/internal/logger"
	"user_manager/internal/service"
	"user_manager/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil logger
// discards output.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log}
}

// InitRoutes builds the gin engine and wraps it with method override, so
// that HTML forms can reach the PATCH and DELETE routes.
func (h *Handler) InitRoutes() http.Handler {
	return methodOverride(h.router())
}

func (h *Handler) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger, requestMetrics)
	router.SetHTMLTemplate(views.MustTemplates())
	router.StaticFS("/static", http.FS(views.Static()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerUserRoutes(router)
	h.registerAPIRoutes(router)

	// Mutation stream over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	r.GET("/", h.home)

	users := r.Group("/user")
	{
		users.GET("", h.listUsers)
		users.GET("/new", h.newUserForm)
		users.POST("/new", h.createUser)
		users.GET("/:id/edit", h.editUserForm)
		users.PATCH("/:id", h.updateUser)
		users.PUT("/:id", h.updateUser)
		users.GET("/:id/delete", h.deleteUserForm)
		users.DELETE("/:id", h.deleteUser)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/users", h.apiListUsers)
		api.GET("/users/:id", h.apiGetUser)
		api.GET("/users/:id/events", h.getUserEvents)
		api.GET("/stats", h.apiStats)
		api.GET("/logs", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
