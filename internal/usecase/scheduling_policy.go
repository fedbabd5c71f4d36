package usecase

import (
	"fmt"
	"time"

	"medical-appointment-api/config"
)

// SchedulingPolicy holds the clinic rules a booking must satisfy.
type SchedulingPolicy struct {
	Location    *time.Location
	LeadTime    time.Duration
	OpeningHour int
	ClosingHour int
}

// DefaultSchedulingPolicy is Mon-Sat 07:00-19:00 with 30 minutes notice.
func DefaultSchedulingPolicy(loc *time.Location) SchedulingPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return SchedulingPolicy{
		Location:    loc,
		LeadTime:    30 * time.Minute,
		OpeningHour: 7,
		ClosingHour: 19,
	}
}

func NewSchedulingPolicy(cfg config.SchedulingConfig) (SchedulingPolicy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return SchedulingPolicy{}, fmt.Errorf("failed to load clinic timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.OpeningHour < 0 || cfg.ClosingHour > 24 || cfg.OpeningHour >= cfg.ClosingHour {
		return SchedulingPolicy{}, fmt.Errorf("invalid clinic hours %d-%d", cfg.OpeningHour, cfg.ClosingHour)
	}

	return SchedulingPolicy{
		Location:    loc,
		LeadTime:    cfg.LeadTime,
		OpeningHour: cfg.OpeningHour,
		ClosingHour: cfg.ClosingHour,
	}, nil
}

// checkLeadTime requires at to be strictly after now plus the lead time.
func (p SchedulingPolicy) checkLeadTime(now, at time.Time) error {
	if !at.After(now.Add(p.LeadTime)) {
		return ErrTooSoon
	}
	return nil
}

// checkBusinessHours requires the start to fall inside opening hours on a day
// other than Sunday, in the clinic timezone. Closing time itself is out.
func (p SchedulingPolicy) checkBusinessHours(at time.Time) error {
	local := at.In(p.Location)
	if local.Weekday() == time.Sunday {
		return ErrOutsideBusinessHours
	}

	opening := p.dayStart(local).Add(time.Duration(p.OpeningHour) * time.Hour)
	closing := p.dayStart(local).Add(time.Duration(p.ClosingHour) * time.Hour)
	if local.Before(opening) || !local.Before(closing) {
		return ErrOutsideBusinessHours
	}
	return nil
}

// dayBounds returns [start, end) of the clinic calendar day containing at.
func (p SchedulingPolicy) dayBounds(at time.Time) (time.Time, time.Time) {
	start := p.dayStart(at.In(p.Location))
	return start, start.AddDate(0, 0, 1)
}

func (p SchedulingPolicy) dayStart(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.Location)
}
