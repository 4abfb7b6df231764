package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/model"
	"apnagate-backend/internal/notification"
	"apnagate-backend/internal/store"
)

type checkVehicleRequest struct {
	VehicleNumber string `json:"vehicle_number"`
}

// CheckVehicle looks up a vehicle by number joined to its owning resident.
// Guards call this for every car at the gate, so positive lookups are cached
// for a short TTL; vehicle mutations flush the cache.
func (h *Handler) CheckVehicle(c *gin.Context) {
	var req checkVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VehicleNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle number is required"})
		return
	}

	key := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if cached, found := h.vehicleCache.Get(key); found {
		c.JSON(http.StatusOK, gin.H{"status": "Resident", "details": cached})
		return
	}

	owner, err := h.store.VehicleOwner(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": "Visitor"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.vehicleCache.SetDefault(key, owner)
	c.JSON(http.StatusOK, gin.H{"status": "Resident", "details": owner})
}

type generatePinRequest struct {
	VisitorPhoneNumber string `json:"visitor_phone_number"`
	ResidentFlatNumber string `json:"resident_flat_number"`
}

// GeneratePin creates a PENDING visitor-log entry with a fresh 4-digit PIN
// and hands notification fan-out to the background dispatcher. The response
// does not wait on any delivery.
func (h *Handler) GeneratePin(c *gin.Context) {
	var req generatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.VisitorPhoneNumber == "" || req.ResidentFlatNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Visitor phone and flat number are required"})
		return
	}

	if _, err := h.store.ResidentByFlat(c.Request.Context(), req.ResidentFlatNumber); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "This flat number does not exist."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pinCode := auth.GeneratePIN()
	entry := model.VisitorLog{
		VisitorPhoneNumber: req.VisitorPhoneNumber,
		ResidentFlatNumber: req.ResidentFlatNumber,
		PinCode:            pinCode,
		Status:             model.StatusPending,
	}
	if err := h.store.CreateVisitorLog(c.Request.Context(), &entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.dispatcher.Dispatch(notification.VisitorArrival{
		FlatNumber:         req.ResidentFlatNumber,
		VisitorPhoneNumber: req.VisitorPhoneNumber,
		PinCode:            pinCode,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("PIN generated and notification sent to the resident of %s.", req.ResidentFlatNumber),
		"pin_code": pinCode,
	})
}

type verifyPinRequest struct {
	PinCode            string `json:"pin_code"`
	ResidentFlatNumber string `json:"resident_flat_number"`
}

// VerifyPin resolves a PENDING entry matching (pin, flat). An entry grants
// access at most once; anything else is denied.
func (h *Handler) VerifyPin(c *gin.Context) {
	var req verifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.PinCode == "" || req.ResidentFlatNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PIN code and flat number are required"})
		return
	}

	granted, err := h.store.ApprovePin(c.Request.Context(), req.PinCode, req.ResidentFlatNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !granted {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or Expired PIN. Access DENIED."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ACCESS GRANTED"})
}
