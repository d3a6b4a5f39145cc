package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/DavCode46/wander-whiskers-server/config"
)

// EmailService sends transactional HTML mail over SMTP.
type EmailService struct {
	Server      string
	Port        string
	SenderEmail string
	SenderPass  string
	SenderName  string
	ClientURL   string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		Server:      cfg.SMTPServer,
		Port:        cfg.SMTPPort,
		SenderEmail: cfg.SenderEmail,
		SenderPass:  cfg.SenderPass,
		SenderName:  cfg.SenderName,
		ClientURL:   cfg.ClientURL,
	}
}

// SendWelcomeEmail sends the post-registration welcome mail with a login link.
func (s *EmailService) SendWelcomeEmail(to string) error {
	body := buildButtonEmailHTML(
		"¡Registro exitoso!",
		"Gracias por registrarte. Te has registrado exitosamente en Wander Whiskers.",
		"Iniciar sesión",
		s.ClientURL,
	)
	return s.send(to, "¡Registro Wander Whiskers!", body)
}

// SendPasswordResetEmail sends the password recovery mail with the reset link.
func (s *EmailService) SendPasswordResetEmail(to, resetLink string) error {
	body := buildButtonEmailHTML(
		"¡Recuperación de contraseña!",
		"Hemos recibido una solicitud para restablecer tu contraseña en Wander Whiskers.",
		"Restablecer Contraseña",
		resetLink,
	)
	return s.send(to, "Recuperar contraseña Wander Whiskers!", body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.SenderEmail == "" || s.SenderPass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	from := fmt.Sprintf("%s <%s>", s.SenderName, s.SenderEmail)
	headers := map[string]string{
		"From":                      from,
		"To":                        to,
		"Subject":                   subject,
		"MIME-Version":              "1.0",
		"Content-Type":              "text/html; charset=UTF-8",
		"Content-Transfer-Encoding": "8bit",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.SenderEmail, s.SenderPass, s.Server)
	if err := smtp.SendMail(s.Server+":"+s.Port, auth, s.SenderEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildButtonEmailHTML(title, text, buttonLabel, buttonLink string) string {
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; background-color: #fff; border-radius: 10px; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); }
        h1 { color: #1890ff; text-align: center; }
        p { color: #555; text-align: center; margin-bottom: 20px; }
        .button { display: inline-block; background-color: #1890ff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
        <div style="text-align: center;">
            <a class="button" style="color: white;" href="%s">%s</a>
        </div>
    </div>
</body>
</html>
`, title, text, buttonLink, buttonLabel)
	return strings.TrimSpace(html)
}
