package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

type fakeSender struct {
	sent []string // to
	fail bool
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to)
	return nil
}

func criticalIncident() *domain.Incident {
	return &domain.Incident{
		IncidentID:  "INC-004",
		ContainerID: "CONT-012",
		Type:        "fire",
		Description: "humo visible",
		Priority:    "critical",
		Status:      domain.IncidentStatusOpen,
		CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestAlerterNotifiesAllRecipients(t *testing.T) {
	s := &fakeSender{}
	a := NewAlerter(s, []string{"ops@example.com", "guardia@example.com"})

	a.NotifyCriticalIncident(context.Background(), criticalIncident())

	assert.Equal(t, []string{"ops@example.com", "guardia@example.com"}, s.sent)
}

func TestAlerterIgnoresNonCritical(t *testing.T) {
	s := &fakeSender{}
	a := NewAlerter(s, []string{"ops@example.com"})

	inc := criticalIncident()
	inc.Priority = "high"
	a.NotifyCriticalIncident(context.Background(), inc)

	assert.Empty(t, s.sent)
}

func TestAlerterSurvivesSendFailure(t *testing.T) {
	s := &fakeSender{fail: true}
	a := NewAlerter(s, []string{"ops@example.com"})

	// no debe panic ni propagar el error
	a.NotifyCriticalIncident(context.Background(), criticalIncident())
	assert.Empty(t, s.sent)
}

func TestCriticalIncidentBodies(t *testing.T) {
	inc := criticalIncident()

	text := criticalIncidentText(inc)
	assert.Contains(t, text, "INC-004")
	assert.Contains(t, text, "CONT-012")
	assert.Contains(t, text, "humo visible")

	htmlBody := criticalIncidentHTML(inc)
	assert.Contains(t, htmlBody, "INC-004")
	assert.Contains(t, htmlBody, "<table>")
}
