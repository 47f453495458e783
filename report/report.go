package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/sirupsen/logrus"

	config "jira-report-agent/configs"
	"jira-report-agent/jira"
)

//go:embed templates/report.html
var reportTemplateRaw string

var reportTemplate = template.Must(
	template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(reportTemplateRaw))

const noDescriptionPlaceholder = "No description provided"

// priorityClasses maps known priority levels to their badge style. Unknown
// priorities stay unstyled rather than failing the render.
var priorityClasses = map[string]string{
	"highest": "priority-urgent",
	"high":    "priority-urgent",
	"medium":  "priority-warning",
	"low":     "priority-normal",
	"lowest":  "priority-normal",
}

type Renderer struct {
	ticketBaseURL     string
	organizationField string
	title             string
	verbose           bool
	logger            logrus.FieldLogger
	now               func() time.Time
}

func NewRenderer(jiraCfg config.JiraConfig, reportCfg config.ReportConfig, logger logrus.FieldLogger) *Renderer {
	return &Renderer{
		ticketBaseURL:     strings.TrimRight(jiraCfg.TicketBaseURL, "/"),
		organizationField: jiraCfg.OrganizationField,
		title:             reportCfg.Title,
		verbose:           reportCfg.Verbosity != config.VerbosityMinimal,
		logger:            logger,
		now:               time.Now,
	}
}

type Data struct {
	Title   string
	Date    string
	Verbose bool
	Issues  []IssueView
}

type IssueView struct {
	Key           string
	URL           string
	Summary       string
	Priority      string
	PriorityClass string
	Organizations string
	Reporter      string
	Description   template.HTML
}

// Render builds the HTML report document. The issue order of the input is
// preserved exactly; the date in the header is taken at render time.
func (r *Renderer) Render(issues []jira.Issue) (string, error) {
	data := Data{
		Title:   r.title,
		Date:    r.now().Format("2006-01-02"),
		Verbose: r.verbose,
		Issues:  make([]IssueView, 0, len(issues)),
	}
	for _, issue := range issues {
		data.Issues = append(data.Issues, r.issueView(issue))
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	r.logger.Infof("Rendered report with %d issue(s)", len(issues))
	return buf.String(), nil
}

func (r *Renderer) issueView(issue jira.Issue) IssueView {
	view := IssueView{
		Key:           issue.Key,
		URL:           r.ticketBaseURL + "/" + issue.Key,
		Summary:       issue.Fields.Summary,
		Organizations: issue.OrganizationNames(r.organizationField),
		Description:   descriptionHTML(issue.Fields.Description),
	}
	if issue.Fields.Priority != nil {
		view.Priority = issue.Fields.Priority.Name
		view.PriorityClass = priorityClasses[strings.ToLower(view.Priority)]
	}
	if issue.Fields.Reporter != nil {
		view.Reporter = issue.Fields.Reporter.DisplayName
	}
	return view
}

// descriptionHTML escapes the ticket description and then turns literal
// newlines into line breaks. The placeholder for an absent description is
// substituted before any conversion happens.
func descriptionHTML(description string) template.HTML {
	if description == "" {
		return noDescriptionPlaceholder
	}
	escaped := template.HTMLEscapeString(description)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
