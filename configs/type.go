package config

type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	Jira   JiraConfig   `yaml:"jira"`
	Mail   MailConfig   `yaml:"mail"`
	Report ReportConfig `yaml:"report"`
}

type AgentConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

type JiraConfig struct {
	ServerURL          string `yaml:"server_url"`
	TicketBaseURL      string `yaml:"ticket_base_url"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	RequestTimeout     int    `yaml:"request_timeout"` // in seconds
	MaxResults         int    `yaml:"max_results"`
	OrganizationField  string `yaml:"organization_field"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type MailConfig struct {
	Sender           string `yaml:"sender"`
	SMTPHost         string `yaml:"smtp_host"`
	SMTPPort         int    `yaml:"smtp_port"`
	SMTPUsername     string `yaml:"smtp_username"`
	SMTPPassword     string `yaml:"smtp_password"`
	DefaultRecipient string `yaml:"default_recipient"`
}

type ReportConfig struct {
	Subject   string `yaml:"subject"`
	Title     string `yaml:"title"`
	Verbosity string `yaml:"verbosity"` // "full" or "minimal"
}
