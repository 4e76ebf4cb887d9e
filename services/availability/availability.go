// Package availability turns a provider's per-weekday availability window
// into discrete bookable one-hour slots.
package availability

import (
	"fmt"
	"strings"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"go.uber.org/zap"
)

// Slot is one bookable start time within a provider's window. Slots in the
// past on the current day stay visible but unselectable (display policy).
type Slot struct {
	Label      string `json:"label"` // "3:04 PM" form
	Selectable bool   `json:"selectable"`
}

// ParseWindow parses an availability window string of the form
// "9:00 AM - 5:00 PM" into start and end clock times. The end must be after
// the start.
func ParseWindow(window string) (start, end time.Time, err error) {
	parts := strings.Split(window, " - ")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed availability window %q", window)
	}

	start, err = time.Parse(models.SlotLabelFormat, strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed window start %q: %w", parts[0], err)
	}
	end, err = time.Parse(models.SlotLabelFormat, strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed window end %q: %w", parts[1], err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("window end %q not after start %q", parts[1], parts[0])
	}
	return start, end, nil
}

// GenerateSlots emits one slot per hour from the window start while strictly
// before the window end. When date falls on the same day as now, slots whose
// time-of-day is not strictly after now are marked unselectable. A malformed
// window is logged and yields an empty list; it never fails the caller.
func GenerateSlots(window string, date, now time.Time) []Slot {
	start, end, err := ParseWindow(window)
	if err != nil {
		utils.GetLogger().Warn("skipping malformed availability window",
			zap.String("window", window), zap.Error(err))
		return nil
	}

	sameDay := date.Year() == now.Year() && date.YearDay() == now.YearDay()
	nowMinutes := now.Hour()*60 + now.Minute()

	var slots []Slot
	for cur := start; cur.Before(end); cur = cur.Add(time.Hour) {
		selectable := true
		if sameDay {
			curMinutes := cur.Hour()*60 + cur.Minute()
			selectable = curMinutes > nowMinutes
		}
		slots = append(slots, Slot{
			Label:      cur.Format(models.SlotLabelFormat),
			Selectable: selectable,
		})
	}
	return slots
}

// WeekdayKey returns the availability map key for a date ("mon".."sun").
func WeekdayKey(date time.Time) string {
	return strings.ToLower(date.Format("Mon"))
}

// ForService resolves the service's window for the date's weekday and
// generates its slots. No availability entry for that weekday means no slots,
// and the caller must disable booking for that date.
func ForService(svc *models.Service, date, now time.Time) []Slot {
	if svc == nil || len(svc.Availability) == 0 {
		return nil
	}
	window, ok := svc.Availability[WeekdayKey(date)]
	if !ok || window == "" {
		return nil
	}
	return GenerateSlots(window, date, now)
}
