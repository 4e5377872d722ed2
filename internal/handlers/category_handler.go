package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bliq/internal/ledger"
	"bliq/internal/services"
)

// CategoryHandler handles category registry requests.
type CategoryHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
// Blank icon and color fall back to defaults.
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=60"`
	Icon  string `json:"icon" binding:"omitempty,style_token"`
	Color string `json:"color" binding:"omitempty,style_token"`
}

// CategoryResponse is a category along with the save outcome.
type CategoryResponse struct {
	Category ledger.Category    `json:"category"`
	Save     services.SaveState `json:"save"`
}

// ListCategories returns the category registry
// @Summary     List categories
// @Description Get the categories in insertion order
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ledger.Category "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.ledgerService.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory appends a category
// @Summary     Create a category
// @Description Append a category. Duplicate names are allowed.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} CategoryResponse "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	category, save, err := h.ledgerService.AddCategory(c.Request.Context(), userID, req.Name, req.Icon, req.Color)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateCategory, "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name})

	c.JSON(http.StatusCreated, CategoryResponse{Category: category, Save: save})
}

// DeleteCategory removes a category
// @Summary     Delete a category
// @Description Remove a category. Transactions keep their category text. Unknown IDs are ignored.
// @Tags        categories
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     204 "Category deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	removed, _, err := h.ledgerService.RemoveCategory(c.Request.Context(), userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if removed {
		h.auditService.Log(userID, services.AuditDeleteCategory, "category", id, c.ClientIP(), nil)
	}

	c.Status(http.StatusNoContent)
}
