package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/model"
	"apnagate-backend/internal/mw"
	"apnagate-backend/internal/store"
)

type registerRequest struct {
	Name        string   `json:"name" binding:"required"`
	PhoneNumber string   `json:"phone_number" binding:"required"`
	FlatNumber  string   `json:"flat_number" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	Vehicles    []string `json:"vehicles"`
}

// Register creates a resident account with any initial vehicles.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password."})
		return
	}

	resident := model.Resident{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		FlatNumber:  req.FlatNumber,
		Password:    hashed,
	}
	if err := h.store.CreateResident(c.Request.Context(), &resident, req.Vehicles); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Flat number or phone number already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Resident %s in flat %s registered successfully!", req.Name, req.FlatNumber),
	})
}

type loginRequest struct {
	FlatNumber string `json:"flat_number" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login authenticates a resident by flat number and password. The failure
// response never distinguishes an unknown flat from a wrong password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resident, err := h.store.ResidentByFlat(c.Request.Context(), req.FlatNumber)
	if err != nil || !auth.CheckPassword(req.Password, resident.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid flat number or password"})
		return
	}

	token, err := h.tokens.Issue(resident.FlatNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   token,
		"name":    resident.Name,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword re-verifies the old password before overwriting it.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flatNumber := mw.FlatNumber(c)
	resident, err := h.store.ResidentByFlat(c.Request.Context(), flatNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resident."})
		return
	}

	if !auth.CheckPassword(req.OldPassword, resident.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect old password."})
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password."})
		return
	}
	if err := h.store.UpdatePassword(c.Request.Context(), flatNumber, hashed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully!"})
}
