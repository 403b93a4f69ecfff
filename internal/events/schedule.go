package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dhima/event-trigger-service/internal/models"
)

var dailyParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// applyTriggerPolicy keeps only the schedule field that matches the event type,
// filling in defaults when it is absent.
func applyTriggerPolicy(e *models.Event, interval *int, fixedTime *string) {
	switch e.EventType {
	case models.EventTypeInterval:
		n := models.DefaultIntervalMinutes
		if interval != nil {
			n = *interval
		}
		e.IntervalMinutes = &n
		e.FixedTime = nil
	case models.EventTypeFixedTime:
		t := models.DefaultFixedTime
		if fixedTime != nil && *fixedTime != "" {
			t = normalizeTimeOfDay(*fixedTime)
		}
		e.FixedTime = &t
		e.IntervalMinutes = nil
	default:
		e.IntervalMinutes = nil
		e.FixedTime = nil
	}
}

// normalizeTimeOfDay turns HH:MM into HH:MM:SS.
func normalizeTimeOfDay(t string) string {
	if strings.Count(t, ":") == 1 {
		return t + ":00"
	}
	return t
}

// nextRun previews when the event would fire after from. Nothing dispatches on it.
func nextRun(e *models.Event, from time.Time) *time.Time {
	var schedule cron.Schedule
	switch {
	case e.EventType == models.EventTypeInterval && e.IntervalMinutes != nil:
		schedule = cron.Every(time.Duration(*e.IntervalMinutes) * time.Minute)
	case e.EventType == models.EventTypeFixedTime && e.FixedTime != nil:
		var h, m, s int
		if _, err := fmt.Sscanf(*e.FixedTime, "%d:%d:%d", &h, &m, &s); err != nil {
			return nil
		}
		parsed, err := dailyParser.Parse(fmt.Sprintf("%d %d %d * * *", s, m, h))
		if err != nil {
			return nil
		}
		schedule = parsed
	default:
		return nil
	}

	next := schedule.Next(from.UTC())
	return &next
}
