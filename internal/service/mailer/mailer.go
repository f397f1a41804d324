package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/achieveradarsh/hdnotebackend/internal/config"
)

// SMTPMailer delivers auth notifications over SMTP with implicit TLS
// (port 465 style). Sends are synchronous; callers treat a failed send
// as a failed request.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

const otpBody = `<p>Hi %s,</p>
<p>Your verification code is:</p>
<h2 style="letter-spacing:4px">%s</h2>
<p>The code expires in %d minutes. If you did not request it, you can ignore this email.</p>`

const welcomeBody = `<p>Hi %s,</p>
<p>Your account is ready. Happy note-taking!</p>`

func (m *SMTPMailer) SendOTP(email, code, name string) error {
	subject := formatSubject("verification code")
	body := fmt.Sprintf(otpBody, name, code, 10)
	if err := m.send(email, subject, body); err != nil {
		m.logger.Error("send otp mail failed", zap.String("to", email), zap.Error(err))
		return err
	}
	return nil
}

func (m *SMTPMailer) SendWelcome(email, name string) error {
	subject := formatSubject("welcome to hd notes")
	body := fmt.Sprintf(welcomeBody, name)
	if err := m.send(email, subject, body); err != nil {
		m.logger.Error("send welcome mail failed", zap.String("to", email), zap.Error(err))
		return err
	}
	return nil
}

func formatSubject(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	serverAddr := m.cfg.Host + ":" + m.cfg.Port

	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
