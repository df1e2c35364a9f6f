package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// Alerter notifica incidentes críticos a los destinatarios operativos.
// El envío es best effort: un SMTP caído no puede voltear la creación
// del incidente.
type Alerter struct {
	sender     Sender
	recipients []string
}

func NewAlerter(sender Sender, recipients []string) *Alerter {
	return &Alerter{sender: sender, recipients: recipients}
}

// NotifyCriticalIncident manda la alerta si el incidente es crítico.
// Bloquea hasta terminar el envío; el caller decide si lo corre en una
// goroutine.
func (a *Alerter) NotifyCriticalIncident(ctx context.Context, inc *domain.Incident) {
	if a == nil || inc == nil || inc.Priority != "critical" {
		return
	}
	log := logger.From(ctx).With(
		logger.String("component", "Alerter"),
		logger.String("incident", inc.IncidentID),
	)

	subject := fmt.Sprintf("[SmartBin] Incidente crítico %s en %s", inc.IncidentID, inc.ContainerID)
	text := criticalIncidentText(inc)
	htmlBody := criticalIncidentHTML(inc)

	for _, to := range a.recipients {
		if err := a.sender.Send(to, subject, htmlBody, text); err != nil {
			log.Warn("alert delivery failed", logger.String("to", to), logger.Err(err))
		}
	}
}

func criticalIncidentText(inc *domain.Incident) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Incidente %s\n", inc.IncidentID)
	fmt.Fprintf(&b, "Contenedor: %s\n", inc.ContainerID)
	fmt.Fprintf(&b, "Tipo: %s\n", inc.Type)
	fmt.Fprintf(&b, "Prioridad: %s\n", inc.Priority)
	if inc.Description != "" {
		fmt.Fprintf(&b, "Descripción: %s\n", inc.Description)
	}
	fmt.Fprintf(&b, "Reportado: %s\n", inc.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func criticalIncidentHTML(inc *domain.Incident) string {
	var b strings.Builder
	b.WriteString("<h2>Incidente crítico</h2><table>")
	row := func(k, v string) {
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>", k, html.EscapeString(v))
	}
	row("Incidente", inc.IncidentID)
	row("Contenedor", inc.ContainerID)
	row("Tipo", inc.Type)
	row("Prioridad", inc.Priority)
	if inc.Description != "" {
		row("Descripción", inc.Description)
	}
	row("Reportado", inc.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString("</table>")
	return b.String()
}
