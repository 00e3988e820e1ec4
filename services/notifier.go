package services

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"association-portal-api/config"
	"association-portal-api/models"
	"association-portal-api/utils"
)

// User-facing notification messages, kept verbatim from the portal's
// message catalog.
func approvedMessage(title string) string {
	return fmt.Sprintf("درخواست شما با عنوان \"%s\" تایید شد", title)
}

func rejectedMessage(title string) string {
	return fmt.Sprintf("درخواست شما با عنوان \"%s\" رد شد", title)
}

func approvedSMS(submissionID int) string {
	return fmt.Sprintf("درخواست شماره %d شما توسط انجمن علمی افق رویداد تایید شد.", submissionID)
}

func fileUploadedMessage(submissionID int) string {
	return fmt.Sprintf("فایل جدیدی برای درخواست شماره %d توسط انجمن علمی افق رویداد بارگذاری شد.", submissionID)
}

func reviewEmailSubject(approved bool) string {
	if approved {
		return "تایید درخواست"
	}
	return "رد درخواست"
}

func buildEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "کاربر گرامی"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("%s عزیز،", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

// SMSGateway delivers a message to a national-format receptor number.
type SMSGateway interface {
	Send(receptor, message string) error
}

// KavenegarGateway calls the Kavenegar REST API.
type KavenegarGateway struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewKavenegarGateway() *KavenegarGateway {
	return &KavenegarGateway{
		APIKey:  os.Getenv("KAVENEGAR_API_KEY"),
		BaseURL: "https://api.kavenegar.com",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *KavenegarGateway) Send(receptor, message string) error {
	if g.APIKey == "" {
		return fmt.Errorf("KAVENEGAR_API_KEY is not set")
	}

	params := url.Values{}
	params.Set("receptor", receptor)
	params.Set("message", message)

	endpoint := fmt.Sprintf("%s/v1/%s/sms/send.json?%s", g.BaseURL, g.APIKey, params.Encode())

	resp, err := g.Client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway error: %s (%s)", resp.Status, string(body))
	}

	return nil
}

// Notifier dispatches the side effects of state transitions: in-app
// notification rows, SMS, and email. None of these may fail the primary
// operation; callers use the *Safe variants which log and swallow errors.
type Notifier struct {
	db      *gorm.DB
	gateway SMSGateway
	mail    func(to []string, subject, html string) error
}

func NewNotifier(db *gorm.DB, gateway SMSGateway) *Notifier {
	return &Notifier{db: db, gateway: gateway, mail: config.SendMail}
}

// Notify inserts an in-app notification row for the user.
func (n *Notifier) Notify(userID int, message string, relatedSubmissionID *int) error {
	var related *uint
	if relatedSubmissionID != nil {
		v := uint(*relatedSubmissionID)
		related = &v
	}

	notif := models.Notification{
		UserID:              uint(userID),
		Message:             message,
		RelatedSubmissionID: related,
		IsRead:              false,
		CreateAt:            time.Now(),
	}
	if err := n.db.Create(&notif).Error; err != nil {
		return &CollaboratorError{Op: "create notification", Err: err}
	}
	return nil
}

// NotifySafe is the fire-and-forget form of Notify.
func (n *Notifier) NotifySafe(userID int, message string, relatedSubmissionID *int) {
	if err := n.Notify(userID, message, relatedSubmissionID); err != nil {
		log.Printf("notification insert failed (user=%d): %v", userID, err)
	}
}

// SendSMS validates and normalizes the phone number, then dispatches through
// the gateway. Gateway failures come back as errors; callers decide whether
// they are fatal (for review/upload side effects they are not).
func (n *Notifier) SendSMS(phone, message string) error {
	if phone == "" || message == "" {
		return &ValidationError{Reason: "Phone number and message are required"}
	}
	if !utils.ValidateIranianPhone(phone) {
		return &ValidationError{Field: "phone", Reason: "Invalid Iranian phone number format. Use +98xxxxxxxxxx"}
	}
	return n.gateway.Send(utils.NormalizeReceptor(phone), message)
}

// SendSMSSafe logs and swallows gateway failures.
func (n *Notifier) SendSMSSafe(phone, message string) {
	if err := n.SendSMS(phone, message); err != nil {
		log.Printf("sms dispatch failed (phone=%s): %v", phone, err)
	}
}

func (n *Notifier) sendMailSafe(to []string, subject, html string) {
	if n.mail == nil {
		return
	}
	if err := n.mail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

// userPhone looks up a user's phone number; empty when absent.
func (n *Notifier) userPhone(userID int) string {
	var user models.User
	if err := n.db.Select("phone_number").Where("user_id = ?", userID).First(&user).Error; err != nil {
		return ""
	}
	if user.PhoneNumber == nil {
		return ""
	}
	return *user.PhoneNumber
}
