package controllers

import (
	"net/http"
	"strconv"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Inventory    *services.InventoryService
	Availability *services.AvailabilityService
}

func NewRoomController(inventory *services.InventoryService, availability *services.AvailabilityService) *RoomController {
	return &RoomController{Inventory: inventory, Availability: availability}
}

// ListAvailable handles GET /api/rooms/available.
// Query: check_in, check_out (required), room_type_id, capacity, amenity.
func (rc *RoomController) ListAvailable(c *gin.Context) {
	checkIn, err := utils.ParseDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_in: invalid date, want YYYY-MM-DD")
		return
	}
	checkOut, err := utils.ParseDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "check_out: invalid date, want YYYY-MM-DD")
		return
	}

	var roomTypeID uint
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid room_type_id")
			return
		}
		roomTypeID = uint(id)
	}
	capacity := 0
	if raw := c.Query("capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid capacity")
			return
		}
		capacity = n
	}

	rooms, err := rc.Availability.FindAvailable(c.Request.Context(), roomTypeID, capacity, checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}

	if amenity := c.Query("amenity"); amenity != "" {
		withAmenity, err := rc.Inventory.RoomsWithAmenity(c.Request.Context(), amenity)
		if err != nil {
			respondError(c, err)
			return
		}
		allowed := make(map[uint]bool, len(withAmenity))
		for _, room := range withAmenity {
			allowed[room.ID] = true
		}
		filtered := rooms[:0]
		for _, room := range rooms {
			if allowed[room.ID] {
				filtered = append(filtered, room)
			}
		}
		rooms = filtered
	}

	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// ListRooms handles GET /api/rooms (staff inventory view).
func (rc *RoomController) ListRooms(c *gin.Context) {
	filter := services.RoomFilter{Status: c.Query("status"), Amenity: c.Query("amenity")}
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid room_type_id")
			return
		}
		filter.RoomTypeID = uint(id)
	}
	rooms, err := rc.Inventory.ListRooms(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Inventory.RoomByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	room, err := rc.Inventory.CreateRoom(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// SetRoomStatus handles PATCH /api/rooms/:id/status (staff).
func (rc *RoomController) SetRoomStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}
	room, err := rc.Inventory.SetRoomStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}
