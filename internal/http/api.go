package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eventbook/internal/auth"
	"eventbook/internal/domain"
	"eventbook/internal/service"
	"eventbook/internal/validation"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	events service.EventService
	tokens *auth.TokenManager
	logger *logrus.Logger
}

func NewHandler(users service.UserService, events service.EventService, tokens *auth.TokenManager, logger *logrus.Logger) *Handler {
	return &Handler{
		users:  users,
		events: events,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	api := router.Group("/api")
	{
		api.GET("", h.banner)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/users", h.listUsers)
		api.GET("/users/:id", h.getUser)
		api.POST("/users", h.createUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)

		api.GET("/events", h.listEvents)
		api.GET("/events/search", h.searchEvents)
		api.GET("/events/:id", h.getEvent)

		protected := api.Group("", RequireAuth(h.tokens))
		{
			protected.POST("/events", h.createEvent)
			protected.PUT("/events/:id", h.updateEvent)
			protected.DELETE("/events/:id", h.deleteEvent)
		}
	}
}

func (h *Handler) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Eventbook REST API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"users":  "/api/users",
			"events": "/api/events",
			"auth":   "/api/auth",
		},
	})
}

type userPayload struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

func (p userPayload) form() validation.UserForm {
	return validation.UserForm{
		Firstname: p.Firstname,
		Lastname:  p.Lastname,
		Email:     p.Email,
		Password:  p.Password,
	}
}

type eventPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Location    *string `json:"location"`
	UserID      *int64  `json:"user_id"`
}

func (p eventPayload) form() validation.EventForm {
	return validation.EventForm{
		Title:       p.Title,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Location:    p.Location,
		UserID:      p.UserID,
	}
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.renderUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.form())
	if err != nil {
		h.renderUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req.form())
	if err != nil {
		h.renderUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.renderUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listEvents(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.events.List(c.Request.Context(), q)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": eventsToResponse(result.Events),
		"pagination": gin.H{
			"limit":  result.Limit,
			"offset": result.Offset,
			"total":  result.Total,
		},
	})
}

func (h *Handler) searchEvents(c *gin.Context) {
	term := strings.TrimSpace(c.Query("query"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	events, err := h.events.Search(c.Request.Context(), term)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": eventsToResponse(events),
		"count":  len(events),
	})
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		h.renderEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) createEvent(c *gin.Context) {
	var req eventPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.events.Create(c.Request.Context(), req.form())
	if err != nil {
		h.renderEventError(c, err)
		return
	}

	if claims, ok := ClaimsFromContext(c); ok {
		h.logger.WithFields(logrus.Fields{
			"event_id": event.ID,
			"actor":    claims.Subject,
		}).Debug("event created")
	}
	c.JSON(http.StatusCreated, eventToResponse(*event))
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req eventPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.events.Update(c.Request.Context(), id, req.form())
	if err != nil {
		h.renderEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		h.renderEventError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserResponse is the outward user representation; the password hash never
// leaves the service.
type UserResponse struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type EventResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Location    string  `json:"location"`
	UserID      int64   `json:"user_id"`
	Firstname   string  `json:"firstname"`
	Lastname    string  `json:"lastname"`
	UserEmail   string  `json:"user_email"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func eventToResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartDate:   event.StartDate.Format(time.RFC3339),
		EndDate:     event.EndDate.Format(time.RFC3339),
		Location:    event.Location,
		UserID:      event.UserID,
		Firstname:   event.OwnerFirstname,
		Lastname:    event.OwnerLastname,
		UserEmail:   event.OwnerEmail,
	}
}

func eventsToResponse(events []domain.Event) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	return resp
}

// userID parses the :id path parameter; an unparseable id behaves like a
// missing user.
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return 0, false
	}
	return id, true
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) renderUserError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Violations})
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
	default:
		h.internalError(c, err)
	}
}

func (h *Handler) renderEventError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Violations})
	case errors.Is(err, service.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
	default:
		h.internalError(c, err)
	}
}

// internalError hides the cause from the client and records it for operators.
func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
