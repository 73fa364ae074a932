package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookshelf/internal/suggest"
)

// SuggestHandler handles the external suggestion endpoint.
type SuggestHandler struct {
	client *suggest.Client
}

// NewSuggestHandler creates a new suggestion handler.
func NewSuggestHandler(client *suggest.Client) *SuggestHandler {
	return &SuggestHandler{client: client}
}

// SuggestResponse represents scraped suggestions for a topic.
type SuggestResponse struct {
	Topic       string   `json:"topic"`
	Suggestions []string `json:"suggestions"`
}

// Suggestions godoc
// @Summary Fetch book suggestions for a topic from Goodreads
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param topic query string true "Search topic"
// @Success 200 {object} SuggestResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /suggestions [get]
func (h *SuggestHandler) Suggestions(c echo.Context) error {
	topic := c.QueryParam("topic")
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}

	// Errors surface inside the suggestion list, never as an HTTP failure.
	suggestions := h.client.Fetch(c.Request().Context(), topic)

	return c.JSON(http.StatusOK, SuggestResponse{
		Topic:       topic,
		Suggestions: suggestions,
	})
}
