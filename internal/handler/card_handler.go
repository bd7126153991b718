package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/cardkeep/internal/model"
	"github.com/xxxsen/cardkeep/internal/pkg/response"
	"github.com/xxxsen/cardkeep/internal/service"
)

type CardHandler struct {
	cards *service.CardService
}

func NewCardHandler(cards *service.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

type cardRequest struct {
	Name    string `json:"name" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Company string `json:"company" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
}

type cardCreatedResponse struct {
	Message string      `json:"message"`
	Card    *model.Card `json:"card"`
}

func (h *CardHandler) Create(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	card, err := h.cards.Create(c.Request.Context(), getOwner(c), service.CardCreateInput{
		Name:    req.Name,
		Title:   req.Title,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cardCreatedResponse{Message: "Business card created", Card: card})
}

func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cards.List(c.Request.Context(), getOwner(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cards)
}

func (h *CardHandler) Get(c *gin.Context) {
	card, err := h.cards.Get(c.Request.Context(), getOwner(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, card)
}

func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.cards.Delete(c.Request.Context(), getOwner(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, response.Message{Message: "Card deleted successfully"})
}
