package mail

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	config "jira-report-agent/configs"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeSession struct {
	sendErr   error
	closed    int
	sentFrom  string
	sentTo    []string
	sentBody  bytes.Buffer
	sendCalls int
}

func (f *fakeSession) Send(from string, to []string, msg io.WriterTo) error {
	f.sendCalls++
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sentFrom = from
	f.sentTo = to
	_, err := msg.WriteTo(&f.sentBody)
	return err
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

type fakeDialer struct {
	session *fakeSession
	dialErr error
}

func (f *fakeDialer) Dial() (gomail.SendCloser, error) {
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return f.session, nil
}

func TestNewSender(t *testing.T) {
	s := NewSender(config.MailConfig{
		Sender:       "reports@example.com",
		SMTPHost:     "smtp.example.com",
		SMTPPort:     465,
		SMTPUsername: "reports@example.com",
		SMTPPassword: "secret",
	}, testLogger())
	require.NotNil(t, s)
}

func newTestSender(dialer Dialer) *sender {
	return &sender{
		dialer: dialer,
		from:   "reports@example.com",
		logger: testLogger(),
	}
}

func TestSend(t *testing.T) {
	session := &fakeSession{}
	s := newTestSender(&fakeDialer{session: session})

	err := s.Send("team@example.com", []string{"lead@example.com", "qa@example.com"},
		"Report - Date: 2024-03-14", "<html><body>report</body></html>")
	require.NoError(t, err)

	assert.Equal(t, 1, session.sendCalls)
	assert.Equal(t, 1, session.closed)
	assert.Equal(t, "reports@example.com", session.sentFrom)
	assert.ElementsMatch(t, []string{"team@example.com", "lead@example.com", "qa@example.com"}, session.sentTo)

	body := session.sentBody.String()
	assert.Contains(t, body, "To: team@example.com")
	assert.Contains(t, body, "Cc: lead@example.com, qa@example.com")
	assert.Contains(t, body, "Subject: Report - Date: 2024-03-14")
	assert.Contains(t, body, "text/html")
}

func TestSendWithoutCC(t *testing.T) {
	session := &fakeSession{}
	s := newTestSender(&fakeDialer{session: session})

	require.NoError(t, s.Send("team@example.com", nil, "subject", "body"))

	assert.Equal(t, []string{"team@example.com"}, session.sentTo)
	assert.NotContains(t, session.sentBody.String(), "Cc:")
}

func TestSendLoginFailure(t *testing.T) {
	session := &fakeSession{}
	s := newTestSender(&fakeDialer{session: session, dialErr: errors.New("535 authentication failed")})

	err := s.Send("team@example.com", nil, "subject", "body")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "authentication failed")

	// No session was handed out, so nothing is left open and nothing was sent.
	assert.Equal(t, 0, session.sendCalls)
	assert.Equal(t, 0, session.closed)
}

func TestSendFailureStillClosesSession(t *testing.T) {
	session := &fakeSession{sendErr: errors.New("connection reset")}
	s := newTestSender(&fakeDialer{session: session})

	err := s.Send("team@example.com", nil, "subject", "body")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	assert.Equal(t, 1, session.sendCalls)
	assert.Equal(t, 1, session.closed)
}
