package utils

import (
	"strings"
	"testing"
)

func TestValidateIranianPhone(t *testing.T) {
	valid := []string{"+989121234567", "+989000000000"}
	for _, p := range valid {
		if !ValidateIranianPhone(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []string{"", "09121234567", "989121234567", "+98912123456", "+9891212345678", "+98abc1234567"}
	for _, p := range invalid {
		if ValidateIranianPhone(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestNormalizeReceptor(t *testing.T) {
	cases := map[string]string{
		"+989121234567": "9121234567",
		"989121234567":  "9121234567",
		"09121234567":   "9121234567",
		"9121234567":    "9121234567",
	}
	for in, want := range cases {
		if got := NormalizeReceptor(in); got != want {
			t.Errorf("NormalizeReceptor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("user@example.com") {
		t.Error("expected user@example.com to be valid")
	}
	if ValidateEmail("not-an-email") {
		t.Error("expected not-an-email to be invalid")
	}
}

func TestStorageName(t *testing.T) {
	a := StorageName(12, "paper.PDF")
	b := StorageName(12, "paper.PDF")

	if !strings.HasPrefix(a, "submission_12/") {
		t.Fatalf("unexpected prefix in %q", a)
	}
	if !strings.HasSuffix(a, ".pdf") {
		t.Fatalf("extension should be lowercased in %q", a)
	}
	if a == b {
		t.Fatal("two uploads of the same filename must not collide")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, reason := ValidatePassword("short"); ok || reason == "" {
		t.Fatalf("expected a short password to fail with a reason, got ok=%v reason=%q", ok, reason)
	}
	if ok, reason := ValidatePassword("longenough1"); !ok || reason != "" {
		t.Fatalf("expected an 8+ character password to pass, got ok=%v reason=%q", ok, reason)
	}
}
