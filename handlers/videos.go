package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"canvasclub/middleware"
	"canvasclub/models"
	"canvasclub/services"
)

const videoBucket = "videos"

// videoStore is the slice of the store the video endpoints use.
type videoStore interface {
	ListVideos(page, limit int, tag string, exclusive *bool) ([]models.Video, int, error)
	GetVideo(id string) (*models.Video, error)
	CreateVideo(title, description, url, thumbnailURL string, isExclusive bool, uploadedBy string, tags []string) (*models.Video, error)
	DeleteVideo(id string) (string, error)
	ListTags() ([]models.Tag, error)
}

type VideoHandler struct {
	store   videoStore
	storage *services.Storage
}

func NewVideoHandler(s videoStore, storage *services.Storage) *VideoHandler {
	return &VideoHandler{store: s, storage: storage}
}

func (h *VideoHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	var exclusive *bool
	switch c.Query("exclusive") {
	case "true":
		v := true
		exclusive = &v
	case "false":
		v := false
		exclusive = &v
	}

	videos, total, err := h.store.ListVideos(page, limit, c.Query("tag"), exclusive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	c.JSON(http.StatusOK, models.VideoListResponse{
		Videos:      videos,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		TotalVideos: total,
	})
}

// Get returns video metadata for everyone. The signed playback URL for an
// exclusive video is only issued to active/trialing subscribers or admins;
// everyone else gets the metadata with no playback URL.
func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.store.GetVideo(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if video == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Video not found"})
		return
	}

	entitled := !video.IsExclusive
	if profile := middleware.CurrentUser(c); profile != nil && (profile.IsSubscriber() || profile.IsAdmin()) {
		entitled = true
	}

	if entitled && video.URL != "" {
		signed, err := h.storage.SignedURL(videoBucket, video.URL, time.Hour)
		if err != nil {
			fmt.Printf("Error generating signed URL: %v\n", err)
		} else {
			video.SignedURL = signed
		}
	}

	c.JSON(http.StatusOK, models.VideoResponse{Video: *video})
}

func (h *VideoHandler) Create(c *gin.Context) {
	profile := middleware.CurrentUser(c)

	var input struct {
		Title        string   `json:"title" binding:"required"`
		Description  string   `json:"description"`
		IsExclusive  bool     `json:"isExclusive"`
		URL          string   `json:"url" binding:"required"`
		ThumbnailURL string   `json:"thumbnailUrl"`
		Tags         []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "title and url are required"})
		return
	}

	video, err := h.store.CreateVideo(input.Title, input.Description, input.URL,
		input.ThumbnailURL, input.IsExclusive, profile.ID, input.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.VideoResponse{Video: *video})
}

// Delete removes the row and then the stored object. Object removal is best
// effort: the row is already gone, so a backend failure only leaves an
// orphaned file.
func (h *VideoHandler) Delete(c *gin.Context) {
	url, err := h.store.DeleteVideo(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}
	if url == "" {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Video not found"})
		return
	}

	if err := h.storage.Remove(videoBucket, url); err != nil {
		fmt.Printf("Error removing video object %s: %v\n", url, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (h *VideoHandler) Tags(c *gin.Context) {
	tags, err := h.store.ListTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Server error", Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.TagListResponse{Tags: tags})
}
