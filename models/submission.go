package models

import "time"

// Submission statuses. pending is the only non-terminal state: once a
// submission is approved or rejected it can never transition again; a user
// resubmits by creating a new row.
const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

type Submission struct {
	SubmissionID int       `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	Title        string    `gorm:"column:title" json:"title"`
	Content      string    `gorm:"column:content" json:"content"`
	Status       string    `gorm:"column:status;index" json:"status"`
	UserID       int       `gorm:"column:user_id;index" json:"user_id"`
	SubmittedAt  time.Time `gorm:"column:submitted_at" json:"submitted_at"`

	// Relations
	User     *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []SubmissionComment `gorm:"foreignKey:SubmissionID" json:"comments,omitempty"`
	Files    []SubmissionFile    `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
}

// IsTerminal reports whether the submission has left the review queue.
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// SubmissionComment is an append-only reviewer note attached to a submission.
type SubmissionComment struct {
	CommentID    int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	SubmissionID int       `gorm:"column:submission_id;index" json:"submission_id"`
	AdminID      int       `gorm:"column:admin_id" json:"admin_id"`
	Comment      string    `gorm:"column:comment" json:"comment"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Admin *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

// SubmissionFile is attachment metadata; the bytes live in the blob store
// under FilePath.
type SubmissionFile struct {
	FileID       int       `gorm:"primaryKey;column:file_id" json:"file_id"`
	SubmissionID int       `gorm:"column:submission_id;index" json:"submission_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	FileName     string    `gorm:"column:file_name" json:"file_name"`
	FilePath     string    `gorm:"column:file_path" json:"file_path"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	FileType     string    `gorm:"column:file_type" json:"file_type"`
	UploadedAt   time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// SubmissionStatusHistory tracks review decisions for auditing.
type SubmissionStatusHistory struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID int       `gorm:"column:submission_id;index" json:"submission_id"`
	OldStatus    string    `gorm:"column:old_status" json:"old_status"`
	NewStatus    string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionComment) TableName() string {
	return "submission_comments"
}

func (SubmissionFile) TableName() string {
	return "submission_files"
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
