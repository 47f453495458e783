package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	config "jira-report-agent/configs"
	"jira-report-agent/jira"
	"jira-report-agent/mail"
	"jira-report-agent/report"
	"jira-report-agent/worker"
)

var (
	configPath string
	recipient  string
	ccAddrs    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "jira-report-agent",
		Short:         "Generate and send a JIRA report for unassigned issues",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "path to the agent configuration file")
	rootCmd.Flags().StringVar(&recipient, "recipient", "", "recipient email address (overrides mail.default_recipient)")
	rootCmd.Flags().StringVar(&ccAddrs, "cc", "", "email addresses for CC, separated by commas")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Println("Starting JIRA Report Agent...")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	logger, err := setupLogging(cfg.Agent)
	if err != nil {
		return err
	}

	logger.Info("JIRA Report Agent starting...")
	logger.Infof("Tracker: %s", cfg.Jira.ServerURL)
	logger.Infof("Mail host: %s:%d", cfg.Mail.SMTPHost, cfg.Mail.SMTPPort)

	jiraService := jira.NewService(cfg.Jira, logger)
	renderer := report.NewRenderer(cfg.Jira, cfg.Report, logger)
	sender := mail.NewSender(cfg.Mail, logger)

	w := worker.NewWorker(cfg, jiraService, renderer, sender, logger)
	if err := w.Run(context.Background(), recipient, splitAddresses(ccAddrs)); err != nil {
		logger.Errorf("Run failed: %v", err)
		return err
	}

	logger.Info("Report run completed")
	return nil
}

func setupLogging(cfg config.AgentConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		logger.SetLevel(logrus.InfoLevel)
	case "WARN":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %v", err)
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, file))
	}

	return logger, nil
}

func splitAddresses(list string) []string {
	if list == "" {
		return nil
	}
	var addrs []string
	for _, addr := range strings.Split(list, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			addrs = append(addrs, trimmed)
		}
	}
	return addrs
}
