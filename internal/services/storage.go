package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudvault/backend/internal/config"
	"github.com/cloudvault/backend/internal/models"
	"github.com/cloudvault/backend/internal/storage"
	"github.com/cloudvault/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageService coordinates the blob store and the metadata catalog so that
// every file row references a live blob. Uploads write the blob strictly
// before the row; deletes remove the blob strictly before the row. A crash
// between the two steps can therefore leave an orphan blob (unreachable
// garbage) or a row pointing at a missing blob (masked as not-found on
// download, cleared by a retried delete) but never a row serving stale bytes.
type StorageService struct {
	db          *gorm.DB
	blobs       storage.BlobStore
	maxBytes    int64
	allowedExts map[string]bool
}

func NewStorageService(db *gorm.DB, blobs storage.BlobStore, cfg config.UploadConfig) *StorageService {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[ext] = true
	}
	return &StorageService{
		db:          db,
		blobs:       blobs,
		maxBytes:    cfg.MaxBytes,
		allowedExts: allowed,
	}
}

// UploadFile validates the request, writes the blob, then inserts the
// metadata row. A failed insert triggers a compensating blob delete so no
// reachable orphan survives the operation.
func (s *StorageService) UploadFile(ctx context.Context, ownerID uuid.UUID, originalName, mimeType, folderPath string, size int64, reader io.Reader) (*models.File, error) {
	originalName = filepath.Base(strings.TrimSpace(originalName))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}

	folderPath = NormalizeFolderPath(folderPath)

	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", ErrValidation, s.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !s.allowedExts[ext] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrValidation, ext)
	}

	if mimeType == "" {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	storagePath, written, err := s.blobs.Put(ctx, ownerID.String(), ext, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFault, err)
	}

	entry := models.File{
		OwnerID:      ownerID,
		StoredName:   path.Base(storagePath),
		OriginalName: originalName,
		StoragePath:  storagePath,
		Size:         written,
		MimeType:     mimeType,
		IsEncrypted:  s.blobs.Encrypted(),
		FolderPath:   folderPath,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if _, delErr := s.blobs.Delete(ctx, storagePath); delErr != nil {
			logger.ErrorWithUser(ownerID.String(), "orphan_blob_cleanup_failed", delErr, map[string]interface{}{
				"storage_path": storagePath,
			})
		}
		return nil, fmt.Errorf("%w: creating file record: %v", ErrDatabaseFault, err)
	}

	return &entry, nil
}

// ListFiles returns the owner's files in folderPath, newest first.
func (s *StorageService) ListFiles(ctx context.Context, ownerID uuid.UUID, folderPath string) ([]models.File, error) {
	folderPath = NormalizeFolderPath(folderPath)

	var files []models.File
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND folder_path = ?", ownerID, folderPath).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing files: %v", ErrDatabaseFault, err)
	}
	return files, nil
}

// DownloadFile resolves the metadata row and opens the blob. A row whose blob
// has gone missing reads as not-found to the caller; the inconsistency is
// logged rather than surfaced as a server fault.
func (s *StorageService) DownloadFile(ctx context.Context, ownerID, fileID uuid.UUID) (*models.File, io.ReadCloser, error) {
	file, err := s.findFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.blobs.Open(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			logger.WarnWithUser(ownerID.String(), "blob_missing_for_file_record", map[string]interface{}{
				"file_id":      file.ID.String(),
				"storage_path": file.StoragePath,
			})
			return nil, nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageFault, err)
	}

	return file, stream, nil
}

// DeleteFile removes the blob first, then the row. The blob delete is
// idempotent, so a retry after a mid-operation crash converges.
func (s *StorageService) DeleteFile(ctx context.Context, ownerID, fileID uuid.UUID) error {
	file, err := s.findFile(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if _, err := s.blobs.Delete(ctx, file.StoragePath); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFault, err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.File{}, "id = ?", file.ID).Error; err != nil {
		return fmt.Errorf("%w: deleting file record: %v", ErrDatabaseFault, err)
	}

	return nil
}

// CreateFolder computes the canonical path from parent and name and inserts
// the metadata row. Duplicate (owner, path) pairs are rejected.
func (s *StorageService) CreateFolder(ctx context.Context, ownerID uuid.UUID, name, parentPath string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrValidation)
	}
	if strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("%w: folder name must not contain path separators", ErrValidation)
	}

	parentPath = NormalizeFolderPath(parentPath)

	folderPath := parentPath + "/" + name
	if parentPath == "/" {
		folderPath = "/" + name
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("owner_id = ? AND path = ?", ownerID, folderPath).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("%w: checking folder path: %v", ErrDatabaseFault, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFolder, folderPath)
	}

	folder := models.Folder{
		OwnerID:    ownerID,
		Name:       name,
		Path:       folderPath,
		ParentPath: parentPath,
	}

	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFolder, folderPath)
		}
		return nil, fmt.Errorf("%w: creating folder record: %v", ErrDatabaseFault, err)
	}

	return &folder, nil
}

// ListFolders returns the owner's folders under parentPath, alphabetical by
// name.
func (s *StorageService) ListFolders(ctx context.Context, ownerID uuid.UUID, parentPath string) ([]models.Folder, error) {
	parentPath = NormalizeFolderPath(parentPath)

	var folders []models.Folder
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND parent_path = ?", ownerID, parentPath).
		Order("name ASC").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing folders: %v", ErrDatabaseFault, err)
	}
	return folders, nil
}

// findFile is the ownership gate for single-file operations. A file owned by
// someone else reads exactly like a nonexistent one.
func (s *StorageService) findFile(ctx context.Context, ownerID, fileID uuid.UUID) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		First(&file, "id = ? AND owner_id = ?", fileID, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("%w: loading file record: %v", ErrDatabaseFault, err)
	}
	return &file, nil
}

// NormalizeFolderPath canonicalizes a user-supplied folder path: absolute,
// cleaned, no trailing slash except for the root itself.
func NormalizeFolderPath(folderPath string) string {
	folderPath = strings.TrimSpace(folderPath)
	if folderPath == "" {
		return "/"
	}
	if !strings.HasPrefix(folderPath, "/") {
		folderPath = "/" + folderPath
	}
	return path.Clean(folderPath)
}
