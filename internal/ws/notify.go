package ws

import "time"

const (
	EventTeamStaffed         = "team_staffed"
	EventVacanciesBackfilled = "vacancies_backfilled"
	EventDevelopmentProposal = "development_proposal"
)

type Event struct {
	Type      string    `json:"type"`
	ProjectID int64     `json:"project_id"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// hrOnly reports whether the event names an employee's rating outcome.
func (e Event) hrOnly() bool {
	return e.Type == EventDevelopmentProposal
}

// Publish queues an event for delivery. A full queue drops the event instead of
// blocking the request that produced it.
func (h *Hub) Publish(eventType string, projectID int64, payload any) {
	if h == nil {
		return
	}

	evt := Event{Type: eventType, ProjectID: projectID, Payload: payload, At: time.Now().UTC()}
	select {
	case h.events <- evt:
	default:
		h.logger.Warn().Str("type", eventType).Int64("project_id", projectID).Msg("ws event dropped")
	}
}
