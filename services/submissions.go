package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"association-portal-api/models"
)

// SubmissionService owns the submission lifecycle: the one-pending-per-user
// admission gate, the pending -> approved/rejected transition, and the review
// audit trail. Side effects go through the Notifier and never roll back the
// primary write.
type SubmissionService struct {
	db       *gorm.DB
	notifier *Notifier
	now      func() time.Time
}

func NewSubmissionService(db *gorm.DB, notifier *Notifier) *SubmissionService {
	return &SubmissionService{db: db, notifier: notifier, now: time.Now}
}

// CreateSubmission inserts a new pending submission for the user. A user with
// a submission still under review is turned away. The existence check and the
// insert share a transaction with the user's pending rows locked, so two
// concurrent creates cannot both pass the gate.
func (s *SubmissionService) CreateSubmission(userID int, title, content string) (*models.Submission, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if content == "" {
		return nil, &ValidationError{Field: "content", Reason: "content is required"}
	}

	submission := models.Submission{
		Title:       title,
		Content:     content,
		Status:      models.SubmissionStatusPending,
		UserID:      userID,
		SubmittedAt: s.now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := lockForUpdate(tx).Model(&models.Submission{}).
			Where("user_id = ? AND status = ?", userID, models.SubmissionStatusPending).
			Count(&pending).Error; err != nil {
			return &CollaboratorError{Op: "count pending submissions", Err: err}
		}
		if pending > 0 {
			return &AdmissionDeniedError{
				Code:   ReasonPendingExists,
				Reason: "you already have a submission under review",
			}
		}
		if err := tx.Create(&submission).Error; err != nil {
			return &CollaboratorError{Op: "create submission", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// ReviewSubmission moves a pending submission to approved or rejected.
// Terminal submissions are never re-reviewed. The status update, the history
// row and the optional reviewer comment commit together; the owner
// notification and the approval SMS are best-effort afterwards.
func (s *SubmissionService) ReviewSubmission(adminID, submissionID int, status, comment string) (*models.Submission, error) {
	if status != models.SubmissionStatusApproved && status != models.SubmissionStatusRejected {
		return nil, &ValidationError{Field: "status", Reason: "status must be approved or rejected"}
	}

	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	comment = strings.TrimSpace(comment)
	now := s.now()

	var submission models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("submission_id = ?", submissionID).
			First(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return &CollaboratorError{Op: "load submission", Err: err}
		}

		if submission.IsTerminal() {
			return &InvalidTransitionError{Status: submission.Status}
		}

		oldStatus := submission.Status
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Update("status", status).Error; err != nil {
			return &CollaboratorError{Op: "update submission status", Err: err}
		}
		submission.Status = status

		history := models.SubmissionStatusHistory{
			SubmissionID: submissionID,
			OldStatus:    oldStatus,
			NewStatus:    status,
			ChangedBy:    adminID,
			CreatedAt:    now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return &CollaboratorError{Op: "create status history", Err: err}
		}

		if comment != "" {
			record := models.SubmissionComment{
				SubmissionID: submissionID,
				AdminID:      adminID,
				Comment:      comment,
				CreatedAt:    now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return &CollaboratorError{Op: "create review comment", Err: err}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with the owner attached; the response and the email leg both
	// need the user row.
	if err := s.db.Preload("User").First(&submission, "submission_id = ?", submissionID).Error; err != nil {
		return nil, &CollaboratorError{Op: "reload submission", Err: err}
	}

	// Side effects after commit; failures are logged, never surfaced.
	approved := status == models.SubmissionStatusApproved
	message := rejectedMessage(submission.Title)
	if approved {
		message = approvedMessage(submission.Title)
	}
	s.notifier.NotifySafe(submission.UserID, message, &submissionID)

	if approved {
		if phone := s.notifier.userPhone(submission.UserID); phone != "" {
			s.notifier.SendSMSSafe(phone, approvedSMS(submissionID))
		}
	}

	if submission.User != nil && submission.User.Email != "" {
		subject := reviewEmailSubject(approved)
		s.notifier.sendMailSafe(
			[]string{submission.User.Email},
			subject,
			buildEmailHTML(subject, submission.User.Name, message),
		)
	}

	return &submission, nil
}

// AddReviewComment appends a reviewer note. Unlike review itself it carries no
// precondition on the submission's status.
func (s *SubmissionService) AddReviewComment(adminID, submissionID int, comment string) (*models.SubmissionComment, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, &ValidationError{Field: "comment", Reason: "comment is required"}
	}

	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	var submission models.Submission
	if err := s.db.Select("submission_id").First(&submission, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, &CollaboratorError{Op: "load submission", Err: err}
	}

	record := models.SubmissionComment{
		SubmissionID: submissionID,
		AdminID:      adminID,
		Comment:      comment,
		CreatedAt:    s.now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, &CollaboratorError{Op: "create review comment", Err: err}
	}
	return &record, nil
}

// ListByUser returns the user's own submissions, newest first.
func (s *SubmissionService) ListByUser(userID int) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.db.Preload("Files").
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, &CollaboratorError{Op: "list submissions", Err: err}
	}
	return submissions, nil
}

// ListAll returns every submission with owner and review comments, newest
// first. Admin listing only; the caller gates on role.
func (s *SubmissionService) ListAll() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.db.Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Admin").
		Preload("Files").
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, &CollaboratorError{Op: "list submissions", Err: err}
	}
	return submissions, nil
}

// Get loads one submission with its comments and files. Non-admins may only
// see their own.
func (s *SubmissionService) Get(requesterID, requesterRole, submissionID int) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Admin").
		Preload("Files").
		First(&submission, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, &CollaboratorError{Op: "load submission", Err: err}
	}

	if requesterRole != models.RoleAdmin && submission.UserID != requesterID {
		return nil, &AuthorizationError{Reason: "access denied"}
	}
	return &submission, nil
}

func (s *SubmissionService) requireAdmin(userID int) error {
	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AuthorizationError{Reason: "reviewer not found"}
		}
		return &CollaboratorError{Op: "load reviewer", Err: err}
	}
	if !user.IsAdmin() {
		return &AuthorizationError{Reason: "admin role required"}
	}
	return nil
}
