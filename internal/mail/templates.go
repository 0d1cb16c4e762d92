package mail

import "strings"

const verificationEmailHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 24px;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="color: #333333;">Verify your account</h2>
      <p>Hi {{username}},</p>
      <p>Someone tried to sign in to your account. If this was you, enter the
      code below to verify this device. The code expires in 30 minutes.</p>
      <p style="font-size: 24px; letter-spacing: 2px; font-weight: bold; text-align: center; background: #f0f0f0; padding: 12px; border-radius: 4px;">{{email_token}}</p>
      <p>If you did not try to sign in, you can safely ignore this email.</p>
    </div>
  </body>
</html>`

const resetPasswordEmailHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 24px;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="color: #333333;">Reset your password</h2>
      <p>Hi {{username}},</p>
      <p>We received a request to reset your password. Use the code below to
      choose a new one. The code expires in 30 minutes.</p>
      <p style="font-size: 24px; letter-spacing: 2px; font-weight: bold; text-align: center; background: #f0f0f0; padding: 12px; border-radius: 4px;">{{email_token}}</p>
      <p>If you did not request a password reset, you can safely ignore this email.</p>
    </div>
  </body>
</html>`

// RenderVerificationEmail fills the verification template.
func RenderVerificationEmail(username, emailToken string) string {
	return render(verificationEmailHTML, username, emailToken)
}

// RenderResetPasswordEmail fills the password reset template.
func RenderResetPasswordEmail(username, emailToken string) string {
	return render(resetPasswordEmailHTML, username, emailToken)
}

func render(template, username, emailToken string) string {
	out := strings.ReplaceAll(template, "{{username}}", username)
	return strings.ReplaceAll(out, "{{email_token}}", emailToken)
}
