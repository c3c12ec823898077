// Package events records product usage events. Events mirror the client
// instrumentation the dashboard relies on: logins, registrations, page
// views and dashboard section access.
package events

import "time"

// Well-known event names.
const (
	EventLogin           = "user_login"
	EventLogout          = "user_logout"
	EventRegistration    = "user_registration"
	EventPageView        = "page_view"
	EventDashboardAccess = "dashboard_access"
)

// Event is a single usage event.
type Event struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
