package models

import "time"

// LogStatus is the lifecycle state of a log row, independent of the HTTP outcome it records.
type LogStatus string

const (
	LogStatusActive   LogStatus = "ACTIVE"
	LogStatusArchived LogStatus = "ARCHIVED"
	LogStatusDeleted  LogStatus = "DELETED"
)

// Log is the immutable record of one trigger attempt.
type Log struct {
	ID                 int64     `json:"id" example:"1"`
	EventID            int64     `json:"event_id" example:"1"`
	Response           string    `json:"response" example:"{\"ok\":true}"`
	ResponseStatusCode int       `json:"response_status_code" example:"200"`
	Timestamp          time.Time `json:"timestamp" example:"2025-11-05T10:30:00Z"`
	Status             LogStatus `json:"status" example:"ACTIVE"`
} // @name Log

// EventLogsResponse lists the logs of a single event.
type EventLogsResponse struct {
	EventID   int64 `json:"event_id" example:"1"`
	LogsCount int   `json:"logs_count" example:"2"`
	Logs      []Log `json:"logs"`
} // @name EventLogsResponse

// Stats aggregates row counts for the metrics endpoint.
type Stats struct {
	Users           int64 `json:"users_count" example:"12"`
	Events          int64 `json:"events_count" example:"40"`
	Logs            int64 `json:"logs_count" example:"1250"`
	ServerErrorLogs int64 `json:"logs_5xx_count" example:"18"`
} // @name Stats
