package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/pkg/payment"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendReceipt(toEmail string, tx *models.Transaction) error
	SendPaymentFailed(toEmail string, tx *models.Transaction) error
	SendPasswordResetOTP(toEmail, otp string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendReceipt sends a payment receipt after a transaction is marked successful.
func (s *EmailServiceImpl) SendReceipt(toEmail string, tx *models.Transaction) error {
	if s.config.Username == "" || s.config.Password == "" {
		// SMTP not configured; log instead of failing the status update
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("reference", tx.Reference).
			Msg("SMTP credentials not configured - receipt email not sent")
		return nil
	}

	subject := "Your Payment Receipt"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Payment Received</h2>
				<p>Hello %s,</p>
				<p>Your payment has been confirmed. Keep this receipt for your records.</p>
				<p><strong>Reference:</strong> %s</p>
				<p><strong>Amount:</strong> %s</p>
				<p><strong>Due Type:</strong> %s</p>
				<p><strong>College:</strong> %s</p>
				<p><strong>Department:</strong> %s</p>
				<p><strong>Date:</strong> %s</p>
				<p>Best regards,<br>The EasePay Team</p>
			</div>
		</body>
		</html>
	`, tx.FullName, tx.Reference, payment.FormatNaira(tx.Amount), tx.DueType,
		tx.College, tx.Department, tx.CreatedAt.Format("2 January 2006"))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPaymentFailed notifies the payer that the proof of payment was rejected.
func (s *EmailServiceImpl) SendPaymentFailed(toEmail string, tx *models.Transaction) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("reference", tx.Reference).
			Msg("SMTP credentials not configured - failure email not sent")
		return nil
	}

	subject := "Payment Failed"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #d9534f;">Payment Failed</h2>
				<p>Hello %s,</p>
				<p>Unfortunately, your payment could not be processed.</p>
				<p><strong>Reference:</strong> %s</p>
				<p><strong>Amount:</strong> %s</p>
				<p><strong>Due Type:</strong> %s</p>
				<p><strong>College:</strong> %s</p>
				<p><strong>Date:</strong> %s</p>
				<p>Please contact your department admin if you believe this is an error.</p>
				<p>Best regards,<br>The EasePay Team</p>
			</div>
		</body>
		</html>
	`, tx.FullName, tx.Reference, payment.FormatNaira(tx.Amount), tx.DueType,
		tx.College, tx.CreatedAt.Format("2 January 2006"))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetOTP sends a one-time password for resetting an account password.
func (s *EmailServiceImpl) SendPasswordResetOTP(toEmail, otp string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("otp", otp).
			Msg("SMTP credentials not configured - OTP not sent. Use the code above for testing.")
		return nil
	}

	subject := "Your Password Reset Code"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Password Reset</h2>
				<p>Use this code to reset your password: <strong>%s</strong></p>
				<p>The code expires in 5 minutes. If you did not request a reset, ignore this email.</p>
				<p>Best regards,<br>The EasePay Team</p>
			</div>
		</body>
		</html>
	`, otp)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["Date"] = time.Now().Format(time.RFC1123Z)
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
