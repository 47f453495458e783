package jira

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	config "jira-report-agent/configs"
)

const searchAPIPath = "/rest/api/2/search"

// unassignedJQL selects every open ticket without an assignee, newest first.
// The query is trusted as the complete ground truth; no client-side filtering
// happens on the result.
const unassignedJQL = `assignee = EMPTY AND status != "Closed" AND status != "Resolved" AND status != "Done" ORDER BY created DESC`

// Fields requested besides the organization custom field. assignee, created,
// updated and status are not rendered but keep the payload self-describing.
var searchFields = []string{
	"key", "summary", "assignee", "reporter", "created",
	"updated", "priority", "description", "status",
}

var (
	// ErrSearchStatus marks a non-success HTTP status from the search endpoint.
	ErrSearchStatus = errors.New("tracker rejected the search request")
	// ErrSearchFailed marks any other transport or decoding failure.
	ErrSearchFailed = errors.New("search request failed")
)

type Service struct {
	config config.JiraConfig
	client *http.Client
	logger logrus.FieldLogger
}

func NewService(cfg config.JiraConfig, logger logrus.FieldLogger) *Service {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}
	client := &http.Client{
		Transport: tr,
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
	}
	return &Service{
		config: cfg,
		client: client,
		logger: logger,
	}
}

type searchQuery struct {
	JQL        string `url:"jql"`
	Fields     string `url:"fields"`
	MaxResults int    `url:"maxResults"`
}

// FetchUnassignedIssues runs one search against the tracker and returns the
// matching issues in the tracker's order.
func (s *Service) FetchUnassignedIssues(ctx context.Context) ([]Issue, error) {
	s.logger.Info("Requesting unassigned tickets from JIRA")

	fields := append(append([]string{}, searchFields...), s.config.OrganizationField)
	params, err := query.Values(searchQuery{
		JQL:        unassignedJQL,
		Fields:     strings.Join(fields, ","),
		MaxResults: s.config.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	var response SearchResponse
	builder := requests.
		URL(s.config.ServerURL + searchAPIPath).
		Client(s.client).
		BasicAuth(s.config.Username, s.config.Password).
		ToJSON(&response)
	for key, values := range params {
		builder.Param(key, values...)
	}

	if err := builder.Fetch(ctx); err != nil {
		if errors.Is(err, requests.ErrValidator) {
			s.logger.Errorf("HTTP error occurred: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrSearchStatus, err)
		}
		s.logger.Errorf("An error occurred: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	s.logger.Infof("Fetched %d unassigned issues", len(response.Issues))
	return response.Issues, nil
}
