package controllers

import (
	"net/http"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

// RateController carries the staff endpoints for seasonal rates and
// promo codes.
type RateController struct {
	Inventory *services.InventoryService
}

func NewRateController(inventory *services.InventoryService) *RateController {
	return &RateController{Inventory: inventory}
}

func (rc *RateController) CreateRate(c *gin.Context) {
	var in services.RoomRateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rate, err := rc.Inventory.CreateRoomRate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rate)
}

// ListRates handles GET /api/room-types/:id/rates.
func (rc *RateController) ListRates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := rc.Inventory.RoomTypeByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	rates, err := rc.Inventory.RatesForRoomType(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rates)
}

func (rc *RateController) CreatePromoCode(c *gin.Context) {
	var in services.PromoCodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	promo, err := rc.Inventory.CreatePromoCode(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, promo)
}

func (rc *RateController) GetPromoCode(c *gin.Context) {
	promo, err := rc.Inventory.PromoByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, promo)
}
