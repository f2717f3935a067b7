package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password
	if from == "" || password == "" {
		log.Println("Email sender not configured, skipping email:", subject)
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learning Platform <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the platform layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3A4B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A4B; line-height: 1.6; }
			.content h2 { color: #1B3A4B; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.badge { display: inline-block; padding: 12px 24px; background-color: #2E8B57; color: #FFFFFF; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				You are receiving this email because you have an account on the learning platform.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail sends a verification OTP to the given address
func SendOTPEmail(otp string, email string) error {
	body := fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Use the code below to verify your email address. It expires in 5 minutes.</p>
		<span class="badge">%s</span>
	`, otp)
	return SendEmail([]string{email}, "Your verification code", getEmailTemplate("Email Verification", body))
}

// SendCourseCompletionEmail congratulates a learner on finishing a course
func SendCourseCompletionEmail(email, name, courseTitle string) error {
	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed the course <strong>%s</strong>.</p>
		<div class="info-box">Your certificate can now be requested from your dashboard.</div>
	`, name, courseTitle)
	return SendEmail([]string{email}, "Course completed: "+courseTitle, getEmailTemplate("Course Completed", body))
}

// SendAchievementEmail notifies a learner about a freshly earned badge
func SendAchievementEmail(email, name, achievementName string) error {
	body := fmt.Sprintf(`
		<h2>Well done, %s!</h2>
		<p>You just earned a new achievement:</p>
		<span class="badge">%s</span>
	`, name, achievementName)
	return SendEmail([]string{email}, "New achievement unlocked!", getEmailTemplate("Achievement Unlocked", body))
}

// SendCertificateEmail notifies a learner that a certificate was issued
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) error {
	body := fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Your certificate for <strong>%s</strong> has been issued.</p>
		<div class="info-box">Certificate number: %s</div>
	`, name, courseTitle, certificateNumber)
	return SendEmail([]string{email}, "Your certificate is ready", getEmailTemplate("Certificate Issued", body))
}
