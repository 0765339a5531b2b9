package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ritmo-backend/internal/models"
	"ritmo-backend/internal/services"
)

type EconomyHandler struct {
	economy *services.EconomyService
}

func NewEconomyHandler(economy *services.EconomyService) *EconomyHandler {
	return &EconomyHandler{economy: economy}
}

func (h *EconomyHandler) AddFunds(c *gin.Context) {
	amount, ok := bindAmount(c)
	if !ok {
		return
	}

	gems, err := h.economy.AddGems(c.Request.Context(), c.Param("userId"), amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("added %d gems", amount),
		"gems":    gems,
	})
}

func (h *EconomyHandler) SubstractFunds(c *gin.Context) {
	amount, ok := bindAmount(c)
	if !ok {
		return
	}

	gems, err := h.economy.SubtractGems(c.Request.Context(), c.Param("userId"), amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("subtracted %d gems", amount),
		"gems":    gems,
	})
}

func (h *EconomyHandler) GetBalance(c *gin.Context) {
	balance, err := h.economy.Balance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "gem balance",
		"balance": balance,
	})
}

func bindAmount(c *gin.Context) (int64, bool) {
	var req models.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return 0, false
	}
	if *req.Amount <= 0 {
		respondError(c, services.ErrInvalidAmount)
		return 0, false
	}
	return *req.Amount, true
}
