package controllers

import (
	"net/http"

	"duet-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// VideoController handles HTTP requests for video upload and download.
type VideoController struct {
	videoService *logics.VideoService
}

func NewVideoController(videoService *logics.VideoService) *VideoController {
	return &VideoController{videoService: videoService}
}

// UploadVideo handles POST /videos with a multipart "file" part and an
// optional "title" form field (the file name is used when absent).
func (vc *VideoController) UploadVideo(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to get file from request"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	title := c.FormValue("title")
	if title == "" {
		title = fileHeader.Filename
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	video, err := vc.videoService.UploadVideo(c.Request().Context(), userID, title, contentType, fileHeader.Size, src)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, video)
}

// ListVideos handles GET /videos
func (vc *VideoController) ListVideos(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	videos, err := vc.videoService.ListVideos(c.Request().Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, videos)
}

// DownloadVideo handles GET /videos/:id/download and responds with a
// presigned URL.
func (vc *VideoController) DownloadVideo(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	videoID := c.Param("id")
	if videoID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "video id is required"})
	}

	url, err := vc.videoService.DownloadURL(c.Request().Context(), userID, videoID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"download_url": url})
}

// DeleteVideo handles DELETE /videos/:id
func (vc *VideoController) DeleteVideo(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	videoID := c.Param("id")
	if videoID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "video id is required"})
	}

	if err := vc.videoService.DeleteVideo(c.Request().Context(), userID, videoID); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
