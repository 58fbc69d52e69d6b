package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UploadFiles attaches files to a project outside a workflow action.
func (h *ProjectHandler) UploadFiles(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	var uploads []services.Upload
	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			apierrors.InternalError(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()
		uploads = append(uploads, services.Upload{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      f,
		})
	}

	saved, err := h.projectService.UploadFiles(project.ID, user, uploads)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	fileDTOs := make([]dto.ProjectFileDTO, len(saved))
	for i, file := range saved {
		fileDTOs[i] = dto.ToProjectFileDTO(file)
	}

	c.JSON(http.StatusCreated, gin.H{
		"files": fileDTOs,
	})
}

// DownloadFile streams one stored file back as an attachment.
func (h *ProjectHandler) DownloadFile(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	file, f, err := h.projectService.OpenFile(project.ID, fileID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	defer f.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, file.Size, contentType, f, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	})
}

// DeleteFile removes one stored file.
func (h *ProjectHandler) DeleteFile(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	fileID, ok := parseFileID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteFile(project.ID, fileID, user); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted",
	})
}

func parseFileID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid file ID")
		return 0, false
	}
	return id, true
}
