package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"openhms/api/internal/middleware"
	"openhms/api/internal/service"
)

// RewardHandler serves the citizen reward routes
type RewardHandler struct {
	rewardService *service.RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardService *service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// GetMine returns the caller's reward balance and recent ledger
// @Summary My rewards
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.RewardSummary
// @Router /rewards/my [get]
func (h *RewardHandler) GetMine(c *gin.Context) {
	summary, err := h.rewardService.GetSummary(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
