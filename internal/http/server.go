package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"redfragances/internal/advisor"
	"redfragances/internal/locale"
	"redfragances/internal/metrics"
	"redfragances/internal/service"
)

type Server struct {
	engine  *gin.Engine
	store   *service.Storefront
	chat    *advisor.Conversation
	metrics *metrics.Metrics
	locale  *locale.Formatter
	logger  *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLocale sets how money amounts are rendered in responses (es-ES by default).
func WithLocale(f *locale.Formatter) Option {
	return func(s *Server) {
		if f != nil {
			s.locale = f
		}
	}
}

func NewServer(store *service.Storefront, chat *advisor.Conversation, m *metrics.Metrics, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chat == nil {
		chat = advisor.NewConversation(nil)
	}
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())
	s := &Server{engine: r, store: store, chat: chat, metrics: m, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.locale == nil {
		s.locale = locale.MustNew("es-ES", time.Local)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET("/facets", s.facets)
		products.GET("/:id", s.getProduct)
		products.GET("/:id/quote", s.quote)

		cart := v1.Group("/cart")
		cart.GET("", s.getCart)
		cart.POST("/lines", s.addCartLine)
		cart.PATCH("/lines/:productId", s.updateCartLine)
		cart.DELETE("/lines/:productId", s.removeCartLine)

		v1.POST("/checkout", s.checkout)

		chat := v1.Group("/chat")
		chat.GET("", s.chatHistory)
		chat.POST("", s.sendChat)

		admin := v1.Group("/admin")
		admin.POST("/login", s.login)
		admin.POST("/logout", s.logout)

		gated := admin.Group("", s.requireAdmin)
		gated.GET("/products/:id", s.adminProduct)
		gated.POST("/products", s.createProduct)
		gated.PUT("/products/:id", s.updateProduct)
		gated.DELETE("/products/:id", s.deleteProduct)
		gated.GET("/orders", s.listOrders)
		gated.DELETE("/orders/:id", s.deleteOrder)
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

func (s *Server) requireAdmin(c *gin.Context) {
	if err := s.store.Admin().Require(); err != nil {
		c.AbortWithStatusJSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Next()
}

func writeError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, advisor.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAdminLocked):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, advisor.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
