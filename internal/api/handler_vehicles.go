package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/mw"
	"apnagate-backend/internal/store"
)

// GetVehicles lists the authenticated resident's vehicles.
func (h *Handler) GetVehicles(c *gin.Context) {
	resident, err := h.store.ResidentByFlat(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resident."})
		return
	}

	vehicles, err := h.store.VehiclesByResident(c.Request.Context(), resident.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

type addVehicleRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

// AddVehicle registers a new vehicle to the authenticated resident.
func (h *Handler) AddVehicle(c *gin.Context) {
	var req addVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VehicleNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle number cannot be empty."})
		return
	}

	resident, err := h.store.ResidentByFlat(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resident."})
		return
	}

	if _, err := h.store.AddVehicle(c.Request.Context(), resident.ID, strings.TrimSpace(req.VehicleNumber)); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "This vehicle number is already registered."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.vehicleCache.Flush()
	c.JSON(http.StatusCreated, gin.H{"message": "Vehicle added successfully!"})
}

type deleteVehicleRequest struct {
	VehicleID int64 `json:"vehicle_id" binding:"required"`
}

// DeleteVehicle removes a vehicle. The delete is scoped to the caller's
// resident id, so nobody can delete another resident's vehicle.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	var req deleteVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resident, err := h.store.ResidentByFlat(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resident."})
		return
	}

	deleted, err := h.store.DeleteVehicle(c.Request.Context(), resident.ID, req.VehicleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found or you do not have permission to delete it."})
		return
	}

	h.vehicleCache.Flush()
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully!"})
}
