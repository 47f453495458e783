package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	VerbosityFull    = "full"
	VerbosityMinimal = "minimal"
)

// ValidationError lists every required setting missing from the configuration
// so an operator can fix the whole file in one pass.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "configuration validation failed:\n" + strings.Join(e.Missing, "\n")
}

func LoadConfig(configPath string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %v", err)
	}

	setDefaults(&config)

	return &config, nil
}

// setDefaults only touches optional settings, so a required key the operator
// left out is still detectable by Validate.
func setDefaults(config *Config) {
	if config.Agent.LogLevel == "" {
		config.Agent.LogLevel = "INFO"
	}
	if config.Jira.RequestTimeout == 0 {
		config.Jira.RequestTimeout = 30
	}
	if config.Jira.MaxResults == 0 {
		config.Jira.MaxResults = 100
	}
	if config.Jira.OrganizationField == "" {
		config.Jira.OrganizationField = "customfield_10002"
	}
	if config.Report.Subject == "" {
		config.Report.Subject = "Outstanding Unassigned JIRA Tickets Report"
	}
	if config.Report.Title == "" {
		config.Report.Title = "Unassigned JIRA Issues Report"
	}
	if config.Report.Verbosity == "" {
		config.Report.Verbosity = VerbosityFull
	}
}

// Validate checks that every setting the pipeline depends on is present. It
// never stops at the first problem: all missing sections and keys are collected
// into a single ValidationError.
func Validate(config *Config, logger logrus.FieldLogger) error {
	logger.Info("Validating configuration")

	var missing []string
	missing = append(missing, checkSection("jira", []requiredSetting{
		{"server_url", config.Jira.ServerURL},
		{"ticket_base_url", config.Jira.TicketBaseURL},
		{"username", config.Jira.Username},
		{"password", config.Jira.Password},
	})...)
	missing = append(missing, checkSection("mail", []requiredSetting{
		{"sender", config.Mail.Sender},
		{"smtp_host", config.Mail.SMTPHost},
		{"smtp_port", portValue(config.Mail.SMTPPort)},
		{"smtp_username", config.Mail.SMTPUsername},
		{"smtp_password", config.Mail.SMTPPassword},
		{"default_recipient", config.Mail.DefaultRecipient},
	})...)

	if len(missing) > 0 {
		err := &ValidationError{Missing: missing}
		logger.Errorf("Configuration validation failed: %d setting(s) missing", len(missing))
		return err
	}

	logger.Info("Configuration validated")
	return nil
}

type requiredSetting struct {
	key   string
	value string
}

// checkSection reports the whole section as missing when none of its required
// keys carry a value, and the individual keys otherwise.
func checkSection(section string, settings []requiredSetting) []string {
	var missing []string
	empty := 0
	for _, s := range settings {
		if s.value == "" {
			empty++
			missing = append(missing, fmt.Sprintf("missing setting: %s/%s", section, s.key))
		}
	}
	if empty == len(settings) {
		return []string{fmt.Sprintf("missing section: %s", section)}
	}
	return missing
}

func portValue(port int) string {
	if port == 0 {
		return ""
	}
	return fmt.Sprintf("%d", port)
}
