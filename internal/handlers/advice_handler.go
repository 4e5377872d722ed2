package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bliq/internal/services"
)

// AdviceHandler handles month commentary requests.
type AdviceHandler struct {
	adviceService services.AdviceServicer
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(adviceService services.AdviceServicer) *AdviceHandler {
	return &AdviceHandler{adviceService: adviceService}
}

// AdviceResponse is the advisor's commentary on a month.
type AdviceResponse struct {
	Month  string `json:"month"`
	Advice string `json:"advice"`
}

// GetAdvice asks the advisor about a month
// @Summary     Get advice
// @Description Get commentary on the month's transactions. The ledger is never changed.
// @Tags        advice
// @Produce     json
// @Security    BearerAuth
// @Param       month path string true "Month name or number (1-12)"
// @Success     200 {object} AdviceResponse "Advice"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     503 {object} ErrorResponse "Advisor unavailable"
// @Router      /months/{month}/advice [post]
func (h *AdviceHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseMonthParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	text, err := h.adviceService.GetAdvice(c.Request.Context(), userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AdviceResponse{Month: month.String(), Advice: text})
}
