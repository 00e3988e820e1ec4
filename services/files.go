package services

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"association-portal-api/models"
	"association-portal-api/utils"
)

// MaxFileSize is the attachment size limit.
const MaxFileSize = 10 * 1024 * 1024 // 10 MiB

// allowedFileTypes is the attachment MIME allow-list. The MIME type alone
// decides; the file extension is not consulted.
var allowedFileTypes = map[string]bool{
	"application/pdf":              true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"application/msword":           true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// BlobStore holds attachment bytes addressed by path.
type BlobStore interface {
	Put(path string, r io.Reader) error
	Remove(path string) error
	Open(path string) (io.ReadCloser, error)
}

// DiskStore keeps blobs under a root directory on local disk.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	if root == "" {
		root = "./uploads"
	}
	return &DiskStore{Root: root}
}

func (d *DiskStore) Put(path string, r io.Reader) error {
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (d *DiskStore) Remove(path string) error {
	return os.Remove(filepath.Join(d.Root, filepath.FromSlash(path)))
}

func (d *DiskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Root, filepath.FromSlash(path)))
}

// FileService manages submission attachments: blob first, metadata second on
// upload, and the reverse is never allowed to leave metadata pointing at a
// missing blob on delete.
type FileService struct {
	db       *gorm.DB
	store    BlobStore
	notifier *Notifier
	now      func() time.Time
}

func NewFileService(db *gorm.DB, store BlobStore, notifier *Notifier) *FileService {
	return &FileService{db: db, store: store, notifier: notifier, now: time.Now}
}

// Upload validates and stores an attachment for a submission. The uploader
// must be the submission owner or an admin. The owner is notified
// best-effort, which matters when an admin uploads on their behalf.
func (s *FileService) Upload(submissionID, uploaderID int, fileName, mimeType string, size int64, r io.Reader) (*models.SubmissionFile, error) {
	if size > MaxFileSize {
		return nil, &ValidationError{Field: "file", Reason: "file size exceeds the 10MB limit"}
	}
	if !allowedFileTypes[mimeType] {
		return nil, &ValidationError{Field: "file", Reason: "file type not allowed"}
	}

	var submission models.Submission
	if err := s.db.First(&submission, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, &CollaboratorError{Op: "load submission", Err: err}
	}

	if submission.UserID != uploaderID {
		var uploader models.User
		if err := s.db.First(&uploader, "user_id = ?", uploaderID).Error; err != nil || !uploader.IsAdmin() {
			return nil, &AuthorizationError{Reason: "access denied"}
		}
	}

	path := utils.StorageName(submissionID, fileName)
	if err := s.store.Put(path, r); err != nil {
		return nil, &CollaboratorError{Op: "store file", Err: err}
	}

	record := models.SubmissionFile{
		SubmissionID: submissionID,
		UserID:       uploaderID,
		FileName:     fileName,
		FilePath:     path,
		FileSize:     size,
		FileType:     mimeType,
		UploadedAt:   s.now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		// Remove the blob so a failed upload leaves nothing behind.
		_ = s.store.Remove(path)
		return nil, &CollaboratorError{Op: "create file record", Err: err}
	}

	s.notifier.NotifySafe(submission.UserID, fileUploadedMessage(submissionID), &submissionID)
	if phone := s.notifier.userPhone(submission.UserID); phone != "" {
		s.notifier.SendSMSSafe(phone, fileUploadedMessage(submissionID))
	}

	return &record, nil
}

// Delete removes an attachment, blob before metadata. If the blob removal
// fails the metadata row stays so the failure is visible rather than leaving
// a silently orphaned blob.
func (s *FileService) Delete(fileID, requesterID int) error {
	var file models.SubmissionFile
	if err := s.db.First(&file, "file_id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return &CollaboratorError{Op: "load file record", Err: err}
	}

	if file.UserID != requesterID {
		var requester models.User
		if err := s.db.First(&requester, "user_id = ?", requesterID).Error; err != nil || !requester.IsAdmin() {
			return &AuthorizationError{Reason: "access denied"}
		}
	}

	if err := s.store.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		return &CollaboratorError{Op: "remove file blob", Err: err}
	}

	if err := s.db.Delete(&models.SubmissionFile{}, "file_id = ?", fileID).Error; err != nil {
		return &CollaboratorError{Op: "delete file record", Err: err}
	}
	return nil
}

// List returns a submission's attachments, newest first.
func (s *FileService) List(submissionID int) ([]models.SubmissionFile, error) {
	var files []models.SubmissionFile
	if err := s.db.Where("submission_id = ?", submissionID).
		Order("uploaded_at DESC").
		Find(&files).Error; err != nil {
		return nil, &CollaboratorError{Op: "list files", Err: err}
	}
	return files, nil
}
