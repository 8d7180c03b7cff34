package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Policy.MinAgendaChars <= 0 {
		return fmt.Errorf("policy.min_agenda_chars must be > 0 (got %d)", c.Policy.MinAgendaChars)
	}
	if c.Policy.QualityWarnBelow < 0 || c.Policy.QualityWarnBelow > 100 {
		return fmt.Errorf("policy.quality_warn_below must be in [0,100] (got %d)", c.Policy.QualityWarnBelow)
	}
	if c.Policy.RetentionDays <= 0 {
		return fmt.Errorf("policy.retention_days must be > 0 (got %d)", c.Policy.RetentionDays)
	}

	if c.Jobs.ReminderLookahead <= 0 {
		return fmt.Errorf("jobs.reminder_lookahead must be > 0 (got %v)", c.Jobs.ReminderLookahead)
	}

	if err := c.Jobs.validateSchedules(); err != nil {
		return fmt.Errorf("jobs: %w", err)
	}

	return nil
}

// validateSchedules parses every cron expression so a bad schedule fails at
// startup rather than when the scheduler registers jobs.
func (j *JobsConfig) validateSchedules() error {
	parser := cron.ParseStandard

	schedules := map[string]string{
		"reminder_schedule":  j.ReminderSchedule,
		"mandatory_schedule": j.MandatorySchedule,
		"room_schedule":      j.RoomSchedule,
		"scan_schedule":      j.ScanSchedule,
	}

	for name, expr := range schedules {
		if _, err := parser(expr); err != nil {
			return fmt.Errorf("%s %q: %w", name, expr, err)
		}
	}

	return nil
}
