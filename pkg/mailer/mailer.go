package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
	// Timeout bounds a whole delivery attempt, dial to QUIT
	Timeout time.Duration
}

// Alert is the content of one door alert email
type Alert struct {
	DoorStatus string
	Duration   *int
	Time       string
}

// Mailer sends alert emails. Without SMTP credentials it runs in degraded
// mode: nothing goes over the network and every send reports success, so a
// missing transport never fails ingestion.
type Mailer struct {
	config Config
	live   bool
	log    *zap.Logger
}

// New creates a new Mailer instance. The mode is fixed here.
func New(cfg Config, log *zap.Logger) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	m := &Mailer{
		config: cfg,
		live:   cfg.Username != "" && cfg.Password != "",
		log:    log,
	}
	if m.live {
		log.Info("📧 Email service initialized", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
	} else {
		log.Warn("📧 Email credentials not found, alerts will be logged but not sent")
	}
	return m
}

// Live reports whether the mailer delivers over SMTP
func (m *Mailer) Live() bool {
	return m.live
}

// SendAlert delivers a door alert to one recipient. It returns true only when
// the SMTP server accepted the message (or in degraded mode) and false on any
// failure. Failures are logged, never returned.
func (m *Mailer) SendAlert(ctx context.Context, to string, alert Alert) bool {
	subject := fmt.Sprintf("🚨 DOOR ALERT: Status is %s", alert.DoorStatus)

	if !m.live {
		m.log.Info("Mock alert email",
			zap.String("to", to),
			zap.String("door_status", alert.DoorStatus),
			zap.String("duration", formatDuration(alert.Duration)),
			zap.String("time", alert.Time),
		)
		return true
	}

	body, err := renderAlertTemplate(alert)
	if err != nil {
		m.log.Error("Failed to render alert email", zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	if err := m.send(ctx, to, subject, body); err != nil {
		m.log.Error("❌ Failed to send alert email", zap.String("to", to), zap.Error(err))
		return false
	}

	m.log.Info("📧 Alert email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}

// send delivers an email via SMTP. It follows smtp.SendMail but honours the
// context deadline on every network operation.
func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.config.Host, m.config.Port)

	conn, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	// unblock in-flight reads and writes when ctx is cancelled early
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return err
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return fmt.Errorf("smtp: server doesn't support AUTH")
	}
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.Mail(m.config.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.buildMessage(to, subject, htmlBody)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (m *Mailer) dial(ctx context.Context, addr string) (net.Conn, error) {
	// 465 is implicit TLS; everything else upgrades with STARTTLS if offered
	if m.config.Port == "465" {
		d := &tls.Dialer{Config: &tls.Config{ServerName: m.config.Host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	from := m.config.From
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.config.FromName), m.config.From)
	}

	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"utf-8\""},
	}

	var msg bytes.Buffer
	for _, h := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(htmlBody, "\n", "\r\n"))
	return msg.Bytes()
}

func formatDuration(d *int) string {
	if d == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d seconds", *d)
}

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0f0f23;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;">
    <div style="max-width:500px;margin:40px auto;background:linear-gradient(135deg,#1a1a2e 0%,#16213e 100%);border-radius:16px;overflow:hidden;border:1px solid rgba(239,68,68,0.2);">
        <!-- Header -->
        <div style="background:linear-gradient(135deg,#ef4444 0%,#dc2626 100%);padding:32px;text-align:center;">
            <h1 style="color:#fff;margin:0;font-size:28px;font-weight:700;">🚨 Door Alert</h1>
            <p style="color:rgba(255,255,255,0.85);margin:8px 0 0;font-size:14px;">Alert System Notification</p>
        </div>

        <!-- Body -->
        <div style="padding:32px;">
            <table style="width:100%;color:#e2e8f0;font-size:15px;line-height:1.8;">
                <tr><td style="color:#94a3b8;">Status</td><td><strong style="color:#fca5a5;">{{.DoorStatus}}</strong></td></tr>
                <tr><td style="color:#94a3b8;">Time</td><td>{{.Time}}</td></tr>
                <tr><td style="color:#94a3b8;">Duration</td><td>{{.Duration}}</td></tr>
            </table>
            <p style="color:#f59e0b;font-size:14px;line-height:1.6;margin:24px 0 0;">
                Please check the door immediately.
            </p>
        </div>
    </div>
</body>
</html>`))

// renderAlertTemplate returns the HTML body for a door alert email
func renderAlertTemplate(alert Alert) (string, error) {
	var buf bytes.Buffer
	err := alertTemplate.Execute(&buf, map[string]interface{}{
		"DoorStatus": alert.DoorStatus,
		"Time":       alert.Time,
		"Duration":   formatDuration(alert.Duration),
	})
	return buf.String(), err
}
