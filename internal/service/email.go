package service

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/elegantjewellery/jewellery-api/internal/config"
	"github.com/elegantjewellery/jewellery-api/internal/model"
)

// EmailService sends the store's transactional mail over SMTP.
type EmailService struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *EmailService) SendWelcome(toEmail, userName string) error {
	subject, body := WelcomeMessage(userName)
	return s.send(toEmail, subject, body)
}

func (s *EmailService) SendOrderConfirmation(toEmail, userName string, order *model.Order) error {
	subject, body := OrderConfirmationMessage(userName, order)
	return s.send(toEmail, subject, body)
}

func (s *EmailService) SendOrderStatusUpdate(toEmail, userName string, order *model.Order) error {
	subject, body := OrderStatusUpdateMessage(userName, order)
	return s.send(toEmail, subject, body)
}

func (s *EmailService) send(toEmail, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	return nil
}

func WelcomeMessage(userName string) (subject, body string) {
	subject = "Welcome to Elegant Jewellery!"
	body = fmt.Sprintf(`<h2>Welcome to Elegant Jewellery, %s!</h2>
<p>Thank you for registering with us. We're excited to have you as part of our community.</p>
<p>Start exploring our collection of exquisite jewellery pieces designed just for you.</p>
<p>If you have any questions, feel free to contact our customer support.</p>
<br>
<p>Best regards,</p>
<p>The Elegant Jewellery Team</p>`, userName)
	return subject, body
}

func OrderConfirmationMessage(userName string, order *model.Order) (subject, body string) {
	subject = fmt.Sprintf("Order Confirmation - Order #%s", order.ID)
	body = fmt.Sprintf(`<h2>Thank you for your order, %s!</h2>
<p>Your order #%s has been successfully placed and is currently %s.</p>
<p>We will process your order soon and keep you updated on its status.</p>
<p>You can track your order status by logging into your account.</p>
<br>
<p>Best regards,</p>
<p>The Elegant Jewellery Team</p>`, userName, order.ID, order.Status)
	return subject, body
}

func OrderStatusUpdateMessage(userName string, order *model.Order) (subject, body string) {
	subject = fmt.Sprintf("Order Status Update - Order #%s", order.ID)
	body = fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your order #%s status has been updated to: %s</p>
<p>You can track your order status by logging into your account.</p>
<br>
<p>Best regards,</p>
<p>The Elegant Jewellery Team</p>`, userName, order.ID, order.Status)
	return subject, body
}
