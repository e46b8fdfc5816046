// internal/workers/notifications_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"text/template"

	"github.com/hibiken/asynq"

	"github.com/escoteiros/scout-inventory/internal/adapters/queue"
	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/pkg/config"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// NotificationProcessor e-mails the stock keeper about new withdrawals
type NotificationProcessor struct {
	config   config.NotificationConfig
	sendMail SendMailFunc
	logger   *slog.Logger
}

// NewNotificationProcessor creates a new notification processor. A nil
// sendMail uses smtp.SendMail.
func NewNotificationProcessor(cfg config.NotificationConfig, sendMail SendMailFunc, logger *slog.Logger) *NotificationProcessor {
	if sendMail == nil {
		sendMail = smtp.SendMail
	}
	return &NotificationProcessor{
		config:   cfg,
		sendMail: sendMail,
		logger:   logger.With(slog.String("processor", "notification")),
	}
}

var withdrawalMail = template.Must(template.New("withdrawal").Parse(
	`Nova solicitação de retirada de material

Solicitante: {{.RequesterName}} <{{.RequesterEmail}}>
Item: {{.ItemDescription}}
Tipo: {{.Kind}}
Nível: {{.Level}}
Ramo: {{.Branch}}
Quantidade solicitada: {{.Quantity}}
Disponível em estoque: {{.Available}}
Valor unitário: R$ {{.UnitValue}}
Valor total: R$ {{.TotalValue}}
{{- if .Notes}}
Observações: {{.Notes}}
{{- end}}
Data: {{.RequestedAt}}
`))

type withdrawalMailData struct {
	domain.WithdrawalNotice
	Kind, Level, Branch   string
	UnitValue, TotalValue string
	RequestedAt           string
}

// SendWithdrawalNotice handles notification:withdrawal tasks
func (p *NotificationProcessor) SendWithdrawalNotice(ctx context.Context, t *asynq.Task) error {
	notice, err := queue.ParseWithdrawalNotice(t)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Retirada de material: %s (%d)", notice.ItemDescription, notice.Quantity)
	body, err := renderWithdrawalMail(notice)
	if err != nil {
		return fmt.Errorf("failed to render notice: %w: %w", err, asynq.SkipRetry)
	}

	if !p.config.Enabled {
		p.logger.InfoContext(ctx, "e-mail disabled, notice logged only",
			slog.String("withdrawal_id", notice.WithdrawalID),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	to := p.config.Recipient
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nReply-To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		p.config.From, to, notice.RequesterEmail, subject, body,
	))

	var auth smtp.Auth
	if p.config.SMTPUser != "" {
		auth = smtp.PlainAuth("", p.config.SMTPUser, p.config.SMTPPassword, p.config.SMTPHost)
	}
	addr := p.config.SMTPHost + ":" + strconv.Itoa(p.config.SMTPPort)
	if err := p.sendMail(addr, auth, p.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.InfoContext(ctx, "withdrawal notice sent",
		slog.String("withdrawal_id", notice.WithdrawalID),
		slog.String("to", to))
	return nil
}

// renderWithdrawalMail writes enums as their stored labels, the names staff know.
func renderWithdrawalMail(notice domain.WithdrawalNotice) (string, error) {
	data := withdrawalMailData{
		WithdrawalNotice: notice,
		Kind:             labelOr(vocab.Kind(notice.Kind)),
		Level:            labelOr(vocab.Level(notice.Level)),
		Branch:           labelOr(vocab.Branch(notice.Branch)),
		UnitValue:        notice.UnitValue.StringFixed(2),
		TotalValue:       notice.TotalValue.StringFixed(2),
		RequestedAt:      notice.RequestedAt.Format("02/01/2006 15:04"),
	}
	var buf bytes.Buffer
	if err := withdrawalMail.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func labelOr(label string, err error) string {
	if err != nil {
		return "-"
	}
	return label
}
