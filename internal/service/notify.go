package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dealerhub/outflow/internal/domain"
	"github.com/dealerhub/outflow/internal/logger"
	"github.com/dealerhub/outflow/internal/mail"
)

// Built-in templates used when a workflow has none configured.
const (
	defaultSuccessSubject = "Outbound delivery succeeded: {{workflow.name}}"
	defaultSuccessBody    = "Workflow {{workflow.name}} delivered record {{record_id}} at {{timestamp}} (HTTP {{status}})."
	defaultErrorSubject   = "Outbound delivery FAILED: {{workflow.name}}"
	defaultErrorBody      = "Workflow {{workflow.name}} failed to deliver record {{record_id}} at {{timestamp}}.\n\nError: {{error}}"
)

// templateVar matches {{ name }} placeholders, where name may be dotted
// (record.make, payload.vehicle_id).
var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Notifier composes and submits outcome emails. Delivery is best-effort:
// failures are logged and swallowed, never affecting dispatch or stats
// outcomes already recorded.
type Notifier struct {
	mailer mail.Mailer
}

// NewNotifier creates a Notifier backed by the given mail collaborator.
func NewNotifier(mailer mail.Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

// Notify renders the success or error template variant for the outcome and
// submits it. No-op when the workflow has no recipients configured.
func (n *Notifier) Notify(ctx context.Context, wf *domain.WorkflowConfig, record domain.RecordSnapshot, payload map[string]interface{}, outcome DispatchResult) {
	if len(wf.Notification.Recipients) == 0 {
		return
	}

	subject, body := wf.Notification.SuccessSubject, wf.Notification.SuccessBody
	if !outcome.Success {
		subject, body = wf.Notification.ErrorSubject, wf.Notification.ErrorBody
	}
	if subject == "" {
		if outcome.Success {
			subject = defaultSuccessSubject
		} else {
			subject = defaultErrorSubject
		}
	}
	if body == "" {
		if outcome.Success {
			body = defaultSuccessBody
		} else {
			body = defaultErrorBody
		}
	}

	vars := templateContext(wf, record, payload, outcome)
	msg := mail.Message{
		To:      wf.Notification.Recipients,
		Subject: renderTemplate(subject, vars),
		Body:    renderTemplate(body, vars),
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		logger.CtxWarn(ctx, "notification send failed (ignored): %v", err)
	}
}

// templateContext flattens the known substitution variables: record fields
// under record.*, mapped payload fields under payload.*, plus outcome and
// workflow details.
func templateContext(wf *domain.WorkflowConfig, record domain.RecordSnapshot, payload map[string]interface{}, outcome DispatchResult) map[string]string {
	vars := map[string]string{
		"workflow.name": wf.Name,
		"workflow.id":   wf.ID,
		"record_id":     record.Identity(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"status":        fmt.Sprintf("%d", outcome.StatusCode),
		"error":         outcome.Error,
	}
	for k, v := range record {
		vars["record."+k] = looseString(v)
	}
	for k, v := range payload {
		vars["payload."+k] = looseString(v)
	}
	return vars
}

// renderTemplate substitutes {{name}} placeholders; unknown names render as
// an empty string.
func renderTemplate(tmpl string, vars map[string]string) string {
	return templateVar.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := templateVar.FindStringSubmatch(match)[1]
		return vars[strings.TrimSpace(name)]
	})
}
