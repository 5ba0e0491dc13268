package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/fishfile-service/internal/core/domain"
	"github.com/duynhne/fishfile-service/internal/logger"
	logicv1 "github.com/duynhne/fishfile-service/internal/logic/v1"
	"github.com/duynhne/fishfile-service/middleware"
)

// Handler groups HTTP handlers for the FishFile API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	users     *logicv1.UserService
	locations *logicv1.LocationService
	records   *logicv1.RecordService
	weather   *logicv1.WeatherService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(users *logicv1.UserService, locations *logicv1.LocationService, records *logicv1.RecordService, weather *logicv1.WeatherService) *Handler {
	return &Handler{users: users, locations: locations, records: records, weather: weather}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// middleware.Authenticate must run before these routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token", h.Token)
	rg.POST("/auth/register", h.Register)

	admin := rg.Group("/users", RequireAdmin())
	admin.POST("", h.CreateUser)
	admin.GET("", h.ListUsers)

	user := rg.Group("/users/:username", RequireCorrectUserOrAdmin())
	user.GET("", h.GetUser)
	user.PATCH("", h.UpdateUser)
	user.DELETE("", h.RemoveUser)

	user.POST("/locations", h.CreateLocation)
	user.GET("/locations", h.ListLocations)
	user.GET("/locations/:id", h.GetLocation)
	user.PATCH("/locations/:id", h.UpdateLocation)
	user.DELETE("/locations/:id", h.RemoveLocation)
	user.GET("/locations/:id/records", h.ListLocationRecords)
	user.GET("/locations/:id/weather", h.GetWeather)

	user.POST("/records", h.CreateRecord)
	user.GET("/records", h.ListRecords)
	user.GET("/records/:id", h.GetRecord)
	user.PATCH("/records/:id", h.UpdateRecord)
	user.DELETE("/records/:id", h.RemoveRecord)
}

// RequireAdmin rejects requests whose identity is not an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.IdentityFrom(c)
		if !ok {
			abortWithError(c, logicv1.ErrNotAuthenticated)
			return
		}
		if err := logicv1.EnsureAdmin(actor); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireCorrectUserOrAdmin rejects requests unless the identity is an admin
// or the user named by the :username path segment.
func RequireCorrectUserOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.IdentityFrom(c)
		if !ok {
			abortWithError(c, logicv1.ErrNotAuthenticated)
			return
		}
		if err := logicv1.EnsureCorrectUserOrAdmin(actor, c.Param("username")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// startSpan opens the web-layer span for a request and returns the
// request-scoped logger alongside it.
func startSpan(c *gin.Context, name string) (context.Context, trace.Span, *zerolog.Logger) {
	ctx, span := middleware.StartSpan(c.Request.Context(), name, trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("route", c.FullPath()),
	))
	if username := c.Param("username"); username != "" {
		span.SetAttributes(attribute.String("username", username))
	}
	return ctx, span, logger.FromContext(ctx)
}

// bindJSON decodes and validates the request body into dst.
func bindJSON(c *gin.Context, span trace.Span, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		writeError(c, http.StatusBadRequest, err.Error())
		return false
	}
	span.SetAttributes(attribute.Bool("request.valid", true))
	return true
}

// pathID parses the :id path segment.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// respondError logs err and answers with the status its kind maps to.
func respondError(c *gin.Context, span trace.Span, log *zerolog.Logger, msg string, err error) {
	span.RecordError(err)
	status := statusFor(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Msg(msg)
	_ = c.Error(err)
	abortWithError(c, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)

	var upErr *domain.UpstreamError
	switch {
	case errors.As(err, &upErr):
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": upErr.Messages, "status": status}})
	case status == http.StatusInternalServerError:
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": "Internal server error", "status": status}})
	default:
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": err.Error(), "status": status}})
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": msg, "status": status}})
}
