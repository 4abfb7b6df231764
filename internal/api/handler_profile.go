package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"apnagate-backend/internal/mw"
	"apnagate-backend/internal/store"
)

// GetProfile returns the authenticated resident's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	resident, err := h.store.ResidentByFlat(c.Request.Context(), mw.FlatNumber(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              resident.Name,
		"flat_number":       resident.FlatNumber,
		"phone_number":      resident.PhoneNumber,
		"profile_image_url": resident.ProfileImageURL,
	})
}

type updateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

// UpdateFCMToken stores the resident's device push token.
func (h *Handler) UpdateFCMToken(c *gin.Context) {
	var req updateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FCMToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FCM token is missing."})
		return
	}

	if err := h.store.UpdateFCMToken(c.Request.Context(), mw.FlatNumber(c), req.FCMToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated successfully."})
}

// UploadPicture saves the uploaded file under the configured directory and
// records its public URL. Write the file first, then commit the record.
func (h *Handler) UploadPicture(c *gin.Context) {
	file, err := c.FormFile("profile_pic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	flatNumber := mw.FlatNumber(c)
	uniqueName := fmt.Sprintf("%s_%d_%s", flatNumber, time.Now().Unix(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, uniqueName)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file."})
		return
	}

	imageURL := "/uploads/profile_pics/" + uniqueName
	if err := h.store.SetProfileImage(c.Request.Context(), flatNumber, &imageURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated!", "image_url": imageURL})
}

// DeletePicture clears the profile image record, then removes the file. A
// crash between the two leaves an orphan file, never a dangling record.
func (h *Handler) DeletePicture(c *gin.Context) {
	flatNumber := mw.FlatNumber(c)
	resident, err := h.store.ResidentByFlat(c.Request.Context(), flatNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resident."})
		return
	}

	if err := h.store.SetProfileImage(c.Request.Context(), flatNumber, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if resident.ProfileImageURL != nil {
		path := filepath.Join(h.uploadDir, filepath.Base(*resident.ProfileImageURL))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			// Record is already cleared; the orphan file is harmless.
			c.JSON(http.StatusOK, gin.H{"message": "Profile picture removed."})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture removed."})
}
