package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	config "jira-report-agent/configs"
	"jira-report-agent/jira"
	"jira-report-agent/mail"
	"jira-report-agent/report"
)

// Worker runs the report pipeline: validate the configuration, fetch the
// unassigned issues, render the report and send it. Each stage is one-way and
// the first failure aborts the run.
type Worker struct {
	config      *config.Config
	jiraService *jira.Service
	renderer    *report.Renderer
	sender      mail.Sender
	logger      logrus.FieldLogger
}

func NewWorker(cfg *config.Config, jiraService *jira.Service, renderer *report.Renderer, sender mail.Sender, logger logrus.FieldLogger) *Worker {
	return &Worker{
		config:      cfg,
		jiraService: jiraService,
		renderer:    renderer,
		sender:      sender,
		logger:      logger,
	}
}

// Run executes one validate-fetch-render-send cycle. An empty recipient falls
// back to the configured default recipient.
func (w *Worker) Run(ctx context.Context, recipient string, cc []string) error {
	if err := config.Validate(w.config, w.logger); err != nil {
		return err
	}

	issues, err := w.jiraService.FetchUnassignedIssues(ctx)
	if err != nil {
		return err
	}

	body, err := w.renderer.Render(issues)
	if err != nil {
		w.logger.Errorf("Failed to render report: %v", err)
		return err
	}

	if recipient == "" {
		recipient = w.config.Mail.DefaultRecipient
	}
	subject := fmt.Sprintf("%s - Date: %s",
		w.config.Report.Subject, time.Now().Format("2006-01-02"))

	return w.sender.Send(recipient, cc, subject, body)
}
