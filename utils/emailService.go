package utils

import (
	"coursedesk/config"
	"fmt"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: CourseDesk <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all platform mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A5F; line-height: 1.6; }
			.content h2 { color: #1E3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>COURSEDESK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 CourseDesk. All rights reserved.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendPurchaseReceipt mails the student their order summary after a purchase
// is recorded.
func SendPurchaseReceipt(email, name, courseTitle, paymentID string, finalPrice, discount float64) {
	subject := "Your CourseDesk Order " + paymentID
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have recorded your order for <strong>%s</strong>.</p>
		<div class="info-box">
			Payment reference: <strong>%s</strong><br>
			Amount payable: <strong>%.2f</strong><br>
			Referral discount: <strong>%.2f</strong>
		</div>
		<p>Your enrollment is activated once our team confirms the payment.</p>`,
		name, courseTitle, paymentID, finalPrice, discount)

	go SendEmail([]string{email}, subject, getEmailTemplate("Order Received", body))
}

// SendPaymentConfirmedEmail mails the student once an admin confirms their payment.
func SendPaymentConfirmedEmail(email, name, courseTitle string) {
	subject := "Payment Confirmed - " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment for <strong>%s</strong> has been confirmed and your enrollment is active.</p>
		<p>Happy learning!</p>`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}

// SendCommissionNotice mails a faculty member when a referred sale is confirmed.
func SendCommissionNotice(email, name string, commission float64, paymentID string) {
	subject := "You earned a referral commission"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A sale referred with your code was just confirmed.</p>
		<div class="info-box">
			Commission earned: <strong>%.2f</strong><br>
			Payment reference: <strong>%s</strong>
		</div>
		<p>Commissions are paid out with the next settlement cycle.</p>`,
		name, commission, paymentID)

	go SendEmail([]string{email}, subject, getEmailTemplate("Commission Earned", body))
}
