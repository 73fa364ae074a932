package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookshelf/internal/chatbot"
)

// ChatbotHandler handles the recommendation chatbot endpoint.
type ChatbotHandler struct{}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler() *ChatbotHandler {
	return &ChatbotHandler{}
}

// ChatRequest represents a chatbot message. Bound from JSON or form data.
type ChatRequest struct {
	Message string `json:"message" form:"message" validate:"required"`
}

// ChatResponse represents the chatbot's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat godoc
// @Summary Ask the chatbot for a book suggestion
// @Tags chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Free-text message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /chatbot [post]
func (h *ChatbotHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response: chatbot.Respond(req.Message),
	})
}
