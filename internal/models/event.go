package models

import "time"

// EventType describes the trigger policy of an event.
type EventType string

const (
	EventTypeInterval  EventType = "INTERVAL"
	EventTypeFixedTime EventType = "FIXED_TIME"
	EventTypeOneTime   EventType = "ONE_TIME"
)

// HTTPMethod is the method used when an event is triggered.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
)

const (
	// DefaultIntervalMinutes applies to INTERVAL events created without an interval.
	DefaultIntervalMinutes = 30
	// MaxIntervalMinutes caps INTERVAL events at one year.
	MaxIntervalMinutes = 525600
	// DefaultFixedTime applies to FIXED_TIME events created without a time of day.
	DefaultFixedTime = "09:00:00"
)

// Event represents a webhook definition owned by a user.
type Event struct {
	ID              int64      `json:"id"`
	CreatorID       int64      `json:"creator_id"`
	Name            string     `json:"name"`
	EventType       EventType  `json:"event_type"`
	Destination     string     `json:"destination"`
	MethodType      HTTPMethod `json:"method_type"`
	Payload         *string    `json:"payload,omitempty"`
	IsTest          bool       `json:"is_test"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty"`
	FixedTime       *string    `json:"fixed_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EventRequest represents the body of create and update calls.
type EventRequest struct {
	Name            string     `json:"name" example:"Nightly export"`
	EventType       EventType  `json:"event_type" example:"INTERVAL"`
	Destination     string     `json:"destination" example:"https://webhook.site/xyz"`
	MethodType      HTTPMethod `json:"method_type" example:"POST"`
	Payload         *string    `json:"payload,omitempty" example:"{\"hello\":\"world\"}"`
	IsTest          bool       `json:"is_test" example:"false"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty" example:"30"`
	FixedTime       *string    `json:"fixed_time,omitempty" example:"09:00"`
} // @name EventRequest

// EventResponse represents the response for a single event.
type EventResponse struct {
	ID              int64      `json:"id" example:"1"`
	CreatorID       int64      `json:"creator_id" example:"1"`
	Name            string     `json:"name" example:"Nightly export"`
	EventType       EventType  `json:"event_type" example:"INTERVAL"`
	Destination     string     `json:"destination" example:"https://webhook.site/xyz"`
	MethodType      HTTPMethod `json:"method_type" example:"POST"`
	Payload         *string    `json:"payload,omitempty" example:"{\"hello\":\"world\"}"`
	IsTest          bool       `json:"is_test" example:"false"`
	IntervalMinutes *int       `json:"interval_minutes,omitempty" example:"30"`
	FixedTime       *string    `json:"fixed_time,omitempty" example:"09:00:00"`
	NextRunAt       *time.Time `json:"next_run_at,omitempty" example:"2025-11-05T15:00:00Z"`
	CreatedAt       time.Time  `json:"created_at" example:"2025-11-05T10:00:00Z"`
	UpdatedAt       time.Time  `json:"updated_at" example:"2025-11-05T10:00:00Z"`
} // @name EventResponse
