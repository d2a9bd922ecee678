// Package events provides the in-process event bus used to push progress
// to SSE subscribers.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	RefreshStarted   EventType = "REFRESH_STARTED"
	TickerRefreshed  EventType = "TICKER_REFRESHED"
	RefreshCompleted EventType = "REFRESH_COMPLETED"
	ScoreUpdated     EventType = "SCORE_UPDATED"
	ReportGenerated  EventType = "REPORT_GENERATED"
	CacheCleared     EventType = "CACHE_CLEARED"
	ErrorOccurred    EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type, for subscribe-to-everything streams.
var AllEventTypes = []EventType{
	RefreshStarted,
	TickerRefreshed,
	RefreshCompleted,
	ScoreUpdated,
	ReportGenerated,
	CacheCleared,
	ErrorOccurred,
}

// Event represents a system event.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Module    string                 `json:"module"`
	Data      map[string]interface{} `json:"data"`
}
