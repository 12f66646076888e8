package domain

import (
	"fmt"
	"strings"
)

// Activity is the top-level unit of work, carrying an hour budget.
// CompletedHours and RemainingHours are derived from the activity's tasks.
type Activity struct {
	CompletedHours   float64
	Finalized        bool
	ID               int64
	MoneyReceived    *bool
	Name             string
	OriginalEstimate float64
	PricePerHour     *float64
	RemainingHours   float64
}

// NewActivity returns an activity with no recorded work.
func NewActivity(name string, originalEstimate float64) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if originalEstimate < 0 {
		return Activity{}, fmt.Errorf("%w: original_estimate must not be negative", ErrInvalidInput)
	}
	return Activity{
		Name:             name,
		OriginalEstimate: originalEstimate,
		RemainingHours:   originalEstimate,
	}, nil
}

// ApplyCompletedMinutes sets the derived hour figures from the total
// minutes worked across the activity's tasks.
func (a *Activity) ApplyCompletedMinutes(totalMinutes int64) {
	a.CompletedHours = MinutesToHours(totalMinutes)
	a.RemainingHours = a.OriginalEstimate - a.CompletedHours
}

// BillableAmount returns completed hours times the hourly price, or
// false when no price is set.
func (a Activity) BillableAmount() (float64, bool) {
	if a.PricePerHour == nil {
		return 0, false
	}
	return a.CompletedHours * *a.PricePerHour, true
}

// ActivityUpdate holds the client-settable fields of an activity.
// Nil fields are left unchanged.
type ActivityUpdate struct {
	Finalized        *bool
	MoneyReceived    *bool
	Name             *string
	OriginalEstimate *float64
	PricePerHour     *float64
}

// Apply copies the set fields onto a.
func (u ActivityUpdate) Apply(a *Activity) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		a.Name = name
	}
	if u.OriginalEstimate != nil {
		if *u.OriginalEstimate < 0 {
			return fmt.Errorf("%w: original_estimate must not be negative", ErrInvalidInput)
		}
		a.OriginalEstimate = *u.OriginalEstimate
	}
	if u.Finalized != nil {
		a.Finalized = *u.Finalized
	}
	if u.PricePerHour != nil {
		if *u.PricePerHour < 0 {
			return fmt.Errorf("%w: price_per_hour must not be negative", ErrInvalidInput)
		}
		price := *u.PricePerHour
		a.PricePerHour = &price
	}
	if u.MoneyReceived != nil {
		received := *u.MoneyReceived
		a.MoneyReceived = &received
	}
	return nil
}

// ActivityFilter narrows an activity listing. A nil Finalized matches both
// states; Name is a case-insensitive substring.
type ActivityFilter struct {
	Finalized *bool
	Name      string
}
