package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, name, code string) error
	SendRecoveryCode(email, code string) error
	SendPasswordChanged(email string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendVerificationCode(email, name, code string) error {
	body := fmt.Sprintf(`
		<h2>¡Bienvenido a la Clínica Veterinaria, %s!</h2>
		<p>Tu código de verificación es: <strong>%s</strong></p>
		<p>El código es válido durante 15 minutos.</p>
		<p>Si no has solicitado este registro, ignora este correo.</p>
	`, name, code)

	if err := s.send(email, "Código de verificación", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendRecoveryCode(email, code string) error {
	body := fmt.Sprintf(`
		<h3>Recuperación de contraseña</h3>
		<p>Hemos recibido una solicitud para restablecer tu contraseña.</p>
		<p>Tu código de recuperación es: <strong>%s</strong></p>
		<p>El código es válido durante 15 minutos.</p>
		<p>Si no has solicitado este cambio, ignora este correo.</p>
	`, code)

	if err := s.send(email, "Recuperación de contraseña", body); err != nil {
		return fmt.Errorf("failed to send recovery email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordChanged(email string) error {
	body := `
		<h3>Contraseña actualizada</h3>
		<p>Tu contraseña ha sido cambiada correctamente.</p>
		<p>Si no has realizado este cambio, contacta con la clínica de inmediato.</p>
	`
	if err := s.send(email, "Contraseña actualizada", body); err != nil {
		return fmt.Errorf("failed to send password changed email: %w", err)
	}
	return nil
}
