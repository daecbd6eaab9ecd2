package handlers

import (
	"fmt"

	"github.com/cloudvault/backend/internal/middleware"
	"github.com/cloudvault/backend/internal/services"
	"github.com/cloudvault/backend/pkg/logger"
	"github.com/cloudvault/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Service *services.StorageService
}

func NewFilesHandler(service *services.StorageService) *FilesHandler {
	return &FilesHandler{Service: service}
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed opening uploaded file")
	}
	defer stream.Close()

	entry, err := h.Service.UploadFile(
		c.Context(),
		currentUser.ID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		c.FormValue("folderPath"),
		fileHeader.Size,
		stream,
	)
	if err != nil {
		return serviceError(c, err, "file not found")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_uploaded", map[string]interface{}{
		"file_id":     entry.ID.String(),
		"file_name":   entry.OriginalName,
		"file_size":   entry.Size,
		"mime_type":   entry.MimeType,
		"folder_path": entry.FolderPath,
	})

	return utils.Success(c, fiber.StatusCreated, entry)
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	files, err := h.Service.ListFiles(c.Context(), currentUser.ID, c.Query("folder"))
	if err != nil {
		return serviceError(c, err, "folder not found")
	}

	return utils.Success(c, fiber.StatusOK, files)
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, stream, err := h.Service.DownloadFile(c.Context(), currentUser.ID, fileID)
	if err != nil {
		return serviceError(c, err, "file not found")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_downloaded", map[string]interface{}{
		"file_id":   file.ID.String(),
		"file_name": file.OriginalName,
		"file_size": file.Size,
	})

	c.Set("Content-Type", file.MimeType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	return c.SendStream(stream, int(file.Size))
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	if err := h.Service.DeleteFile(c.Context(), currentUser.ID, fileID); err != nil {
		return serviceError(c, err, "file not found")
	}

	logger.InfoWithUser(currentUser.ID.String(), "file_deleted", map[string]interface{}{
		"file_id": fileID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": fileID})
}

type createFolderRequest struct {
	Name       string `json:"name"`
	ParentPath string `json:"parentPath"`
}

func (h *FilesHandler) CreateFolder(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	folder, err := h.Service.CreateFolder(c.Context(), currentUser.ID, req.Name, req.ParentPath)
	if err != nil {
		return serviceError(c, err, "folder not found")
	}

	logger.InfoWithUser(currentUser.ID.String(), "folder_created", map[string]interface{}{
		"folder_id":   folder.ID.String(),
		"folder_path": folder.Path,
	})

	return utils.Success(c, fiber.StatusCreated, folder)
}

func (h *FilesHandler) ListFolders(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	folders, err := h.Service.ListFolders(c.Context(), currentUser.ID, c.Query("parent"))
	if err != nil {
		return serviceError(c, err, "folder not found")
	}

	return utils.Success(c, fiber.StatusOK, folders)
}
