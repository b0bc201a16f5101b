package controllers

import (
	"net/http"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

type RoomTypeController struct {
	Inventory *services.InventoryService
}

func NewRoomTypeController(inventory *services.InventoryService) *RoomTypeController {
	return &RoomTypeController{Inventory: inventory}
}

func (rtc *RoomTypeController) List(c *gin.Context) {
	types, err := rtc.Inventory.ListRoomTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func (rtc *RoomTypeController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rt, err := rtc.Inventory.RoomTypeByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

func (rtc *RoomTypeController) Create(c *gin.Context) {
	var in services.RoomTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rt, err := rtc.Inventory.CreateRoomType(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

func (rtc *RoomTypeController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.RoomTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rt, err := rtc.Inventory.UpdateRoomType(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}
