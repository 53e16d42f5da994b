package workflow

import (
	"context"
	"fmt"
	"time"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/observability/metrics"
	"visit-route-service/internal/platform/obs"
	"visit-route-service/internal/ports"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// AgendaMutator writes the next-visit field of one patient at a time.
// Every call that passes validation issues exactly one write; identical calls
// are not deduplicated.
type AgendaMutator struct {
	Writer   ports.AgendaWriter
	Cache    *PatientCache
	Notifier ports.Notifier
	Metrics  *metrics.RouteMetrics
}

// Schedule sets the next visit. Both arguments are required.
func (m *AgendaMutator) Schedule(ctx context.Context, patientID *int64, at *time.Time) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "agenda.Schedule")(&err)

	if patientID == nil || at == nil {
		return nil, m.reject(ctx, "schedule")
	}
	return m.write(ctx, "schedule", *patientID, at,
		"Visita agendada", "Próximo atendimento marcado para "+at.Format("02/01/2006 15:04")+".")
}

// Reschedule replaces an existing next visit. A nil date leaves everything
// untouched and issues no write.
func (m *AgendaMutator) Reschedule(ctx context.Context, patientID *int64, at *time.Time) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "agenda.Reschedule")(&err)

	if at == nil {
		return nil, nil
	}
	if patientID == nil {
		return nil, m.reject(ctx, "reschedule")
	}
	return m.write(ctx, "reschedule", *patientID, at,
		"Visita reagendada", "Próximo atendimento alterado para "+at.Format("02/01/2006 15:04")+".")
}

// Clear removes the next visit after confirmation. Declining is a no-op.
// Clearing an empty field succeeds.
func (m *AgendaMutator) Clear(ctx context.Context, patientID int64, confirm Confirmer) (_ *domain.Patient, err error) {
	defer obs.Time(ctx, "agenda.Clear")(&err)

	if confirm == nil {
		return nil, m.reject(ctx, "clear")
	}
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Remover o próximo atendimento do paciente %d?", patientID))
	if err != nil {
		return nil, fmt.Errorf("clear patient %d: confirm: %w", patientID, err)
	}
	if !ok {
		return nil, nil
	}
	return m.write(ctx, "clear", patientID, nil, "Agendamento removido", "O próximo atendimento foi removido.")
}

func (m *AgendaMutator) write(ctx context.Context, op string, id int64, at *time.Time, title, body string) (*domain.Patient, error) {
	p, err := m.Writer.SetNextVisit(ctx, id, at)
	m.Metrics.ObserveAgendaMutation(op, err)
	if err != nil {
		m.notify(ctx, domain.Notification{
			Level: domain.LevelError,
			Title: "Erro ao salvar agenda",
			Body:  "Não foi possível atualizar o atendimento. Tente novamente.",
		})
		return nil, fmt.Errorf("%s patient %d: %w: %w", op, id, domain.ErrMutationFailed, err)
	}

	if m.Cache != nil {
		m.Cache.Invalidate()
	}
	m.notify(ctx, domain.Notification{Level: domain.LevelSuccess, Title: title, Body: body})
	return p, nil
}

func (m *AgendaMutator) reject(ctx context.Context, op string) error {
	m.notify(ctx, domain.Notification{
		Level: domain.LevelError,
		Title: "Dados incompletos",
		Body:  "Selecione o paciente e a data do atendimento.",
	})
	return fmt.Errorf("%s: %w: patient and date are required", op, domain.ErrValidation)
}

func (m *AgendaMutator) notify(ctx context.Context, n domain.Notification) {
	if m.Notifier != nil {
		m.Notifier.Notify(ctx, n)
	}
}
