package mail

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	config "jira-report-agent/configs"
)

// ErrDeliveryFailed marks any authentication or transport failure while
// sending the report. There is at most one send attempt per run.
var ErrDeliveryFailed = errors.New("report delivery failed")

// Sender delivers a rendered report to its recipients.
type Sender interface {
	Send(recipient string, cc []string, subject, body string) error
}

// Dialer opens an authenticated SMTP session. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

type sender struct {
	dialer Dialer
	from   string
	logger logrus.FieldLogger
}

func NewSender(cfg config.MailConfig, logger logrus.FieldLogger) Sender {
	logger.Infof("Initializing mail sender for host: %s, port: %d, user: %s",
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername)
	// gomail uses implicit SSL on port 465 and STARTTLS otherwise.
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return &sender{
		dialer: d,
		from:   cfg.Sender,
		logger: logger,
	}
}

// Send opens one SMTP session, transmits exactly one message and closes the
// session on every exit path.
func (s *sender) Send(recipient string, cc []string, subject, body string) error {
	s.logger.Infof("Sending report to %s (%d cc)", recipient, len(cc))

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", recipient)
	if len(cc) > 0 {
		msg.SetHeader("Cc", cc...)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	session, err := s.dialer.Dial()
	if err != nil {
		s.logger.Errorf("SMTP login failed: %v", err)
		return fmt.Errorf("%w: smtp login: %v", ErrDeliveryFailed, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warnf("Failed to close SMTP session: %v", cerr)
		}
	}()

	if err := gomail.Send(session, msg); err != nil {
		s.logger.Errorf("Failed to send report: %v", err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.logger.Info("Report sent successfully")
	return nil
}
