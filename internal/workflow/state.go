package workflow

import "visit-route-service/internal/domain"

const maxNotifications = 20

// State is the whole workflow state. It is a plain value and serializes to
// JSON; every change goes through Reduce.
type State struct {
	SelectedDay domain.Day `json:"selectedDay"`
	// RouteToken identifies the only route request whose result may still be
	// applied. Selecting a day or discarding the plan moves it forward.
	RouteToken uint64                       `json:"routeToken"`
	Pending    bool                         `json:"pending"`
	Plan       *domain.RoutePlan            `json:"plan,omitempty"`
	PlanDay    domain.Day                   `json:"planDay"`
	PlanStops  []domain.EligibleDestination `json:"planStops,omitempty"`
	LastError  string                       `json:"lastError,omitempty"`
	// Most recent notifications, oldest first.
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

type Action interface{ isAction() }

// SelectDay moves the selection. A different day drops the plan and
// invalidates any request in flight.
type SelectDay struct{ Day domain.Day }

// DiscardRoute drops the plan and invalidates any request in flight.
type DiscardRoute struct{}

// RouteRequested issues a new token; read it back from the resulting state.
type RouteRequested struct{}

type RouteSucceeded struct {
	Token uint64
	Day   domain.Day
	Plan  *domain.RoutePlan
	Stops []domain.EligibleDestination
}

type RouteFailed struct {
	Token uint64
	Err   string
}

type Notified struct{ Notification domain.Notification }

func (SelectDay) isAction()      {}
func (DiscardRoute) isAction()   {}
func (RouteRequested) isAction() {}
func (RouteSucceeded) isAction() {}
func (RouteFailed) isAction()    {}
func (Notified) isAction()       {}

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectDay:
		if a.Day == s.SelectedDay {
			return s
		}
		s.SelectedDay = a.Day
		return clearRoute(s)

	case DiscardRoute:
		return clearRoute(s)

	case RouteRequested:
		s.RouteToken++
		s.Pending = true
		s.LastError = ""
		return s

	case RouteSucceeded:
		if a.Token != s.RouteToken || a.Day != s.SelectedDay {
			return s
		}
		s.Plan = a.Plan
		s.PlanDay = a.Day
		s.PlanStops = append([]domain.EligibleDestination(nil), a.Stops...)
		s.Pending = false
		return s

	case RouteFailed:
		if a.Token != s.RouteToken {
			return s
		}
		s.Pending = false
		s.LastError = a.Err
		return s

	case Notified:
		notes := make([]domain.Notification, 0, len(s.Notifications)+1)
		notes = append(notes, s.Notifications...)
		notes = append(notes, a.Notification)
		if len(notes) > maxNotifications {
			notes = notes[len(notes)-maxNotifications:]
		}
		s.Notifications = notes
		return s
	}
	return s
}

func clearRoute(s State) State {
	s.RouteToken++
	s.Pending = false
	s.Plan = nil
	s.PlanDay = domain.Day{}
	s.PlanStops = nil
	s.LastError = ""
	return s
}
