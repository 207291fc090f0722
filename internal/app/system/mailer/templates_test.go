package mailer

import (
	"strings"
	"testing"
)

func TestBuildResetEmail(t *testing.T) {
	msg := BuildResetEmail(ResetEmailData{
		SiteName:  "RollCall",
		UserName:  "Alice A",
		ResetLink: "https://rollcall.example.com/reset-password?token=abc123",
		ExpiresIn: "30 minutes",
	})

	if !strings.Contains(msg.Subject, "RollCall") {
		t.Errorf("subject %q missing site name", msg.Subject)
	}
	for _, body := range []string{msg.TextBody, msg.HTMLBody} {
		if !strings.Contains(body, "Alice A") {
			t.Error("body missing user name")
		}
		if !strings.Contains(body, "token=abc123") {
			t.Error("body missing reset link")
		}
		if !strings.Contains(body, "30 minutes") {
			t.Error("body missing expiry window")
		}
	}
}

func TestBuildResetEmailEscapesHTML(t *testing.T) {
	msg := BuildResetEmail(ResetEmailData{
		SiteName:  "RollCall",
		UserName:  `<script>alert("x")</script>`,
		ResetLink: "https://rollcall.example.com/reset-password?token=t",
		ExpiresIn: "30 minutes",
	})
	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Error("user name not escaped in HTML body")
	}
}

func TestResetLink(t *testing.T) {
	got := ResetLink("https://rollcall.example.com/", "a b+c")
	want := "https://rollcall.example.com/reset-password?token=a+b%2Bc"
	if got != want {
		t.Errorf("ResetLink = %q, want %q", got, want)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("noreply@example.com", "RollCall", Email{
		To:       "alice@example.com",
		Subject:  "Password Reset Request - RollCall",
		TextBody: "plain part",
		HTMLBody: "<p>html part</p>",
	}))

	for _, want := range []string{
		"From: RollCall <noreply@example.com>",
		"To: alice@example.com",
		"Content-Type: multipart/alternative",
		"text/plain",
		"text/html",
		"plain part",
		"<p>html part</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
	// Text part must come before HTML so clients prefer HTML.
	if strings.Index(raw, "plain part") > strings.Index(raw, "<p>html part</p>") {
		t.Error("text part does not precede html part")
	}
}
