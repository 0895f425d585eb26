package mail

import (
	"fmt"
	"net/url"
)

// ResetSubject is the subject line for password reset emails.
const ResetSubject = "Reset Password"

// ResetEmailBody renders the HTML body for a password reset email. The link
// lands on the frontend reset page with the email and the opaque reset token
// in the query string.
func ResetEmailBody(appURL, email, token string) string {
	link := fmt.Sprintf("%s/reset?email=%s&code=%s",
		appURL, url.QueryEscape(email), url.QueryEscape(token))

	return fmt.Sprintf(`<html>
<body style="margin:0;padding:0;font-family:Arial,Helvetica,sans-serif;background-color:#f4f4f4;">
  <div style="max-width:600px;margin:24px auto;background:#ffffff;border-radius:8px;padding:32px;">
    <h1 style="color:#333333;font-size:22px;">Reset your password</h1>
    <p style="color:#555555;font-size:15px;line-height:1.5;">
      You are receiving this email because a password reset was requested for your
      account. The link below is valid for 10 minutes and can be used once.
    </p>
    <p style="text-align:center;margin:32px 0;">
      <a href="%s" target="_blank"
         style="background:#1a73e8;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:4px;font-size:15px;">
        Reset Password
      </a>
    </p>
    <p style="color:#999999;font-size:13px;">
      If you didn't request a password reset, you can safely ignore this email.
    </p>
  </div>
</body>
</html>`, link)
}
