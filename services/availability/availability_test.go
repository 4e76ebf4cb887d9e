package availability

import (
	"testing"
	"time"

	"blaccbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	start, end, err := ParseWindow("9:00 AM - 5:00 PM")
	require.NoError(t, err)
	assert.Equal(t, "9:00 AM", start.Format(models.SlotLabelFormat))
	assert.Equal(t, "5:00 PM", end.Format(models.SlotLabelFormat))

	_, _, err = ParseWindow("9:00 AM to 5:00 PM")
	assert.Error(t, err)

	_, _, err = ParseWindow("banana - 5:00 PM")
	assert.Error(t, err)

	_, _, err = ParseWindow("5:00 PM - 9:00 AM")
	assert.Error(t, err)
}

func TestGenerateSlotsHourly(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	slots := GenerateSlots("9:00 AM - 5:00 PM", date, now)
	require.Len(t, slots, 8)
	assert.Equal(t, "9:00 AM", slots[0].Label)
	assert.Equal(t, "4:00 PM", slots[len(slots)-1].Label)
	for _, s := range slots {
		assert.True(t, s.Selectable, "future-day slot %s should be selectable", s.Label)
	}
}

func TestGenerateSlotsPartialHourEnd(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// The 5:00 PM slot would extend past the 5:30 PM close but its start is
	// still strictly before the end, so it is emitted.
	slots := GenerateSlots("9:00 AM - 5:30 PM", date, now)
	require.Len(t, slots, 9)
	assert.Equal(t, "5:00 PM", slots[len(slots)-1].Label)
}

func TestGenerateSlotsSameDayGreying(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC)

	slots := GenerateSlots("9:00 AM - 5:00 PM", day, now)
	require.Len(t, slots, 8)

	byLabel := map[string]bool{}
	for _, s := range slots {
		byLabel[s.Label] = s.Selectable
	}
	assert.False(t, byLabel["9:00 AM"])
	assert.False(t, byLabel["1:00 PM"])
	assert.True(t, byLabel["2:00 PM"])
	assert.True(t, byLabel["4:00 PM"])
}

func TestGenerateSlotsMalformedWindow(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	assert.Nil(t, GenerateSlots("whenever", date, now))
	assert.Nil(t, GenerateSlots("", date, now))
}

func TestWeekdayKey(t *testing.T) {
	assert.Equal(t, "mon", WeekdayKey(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sun", WeekdayKey(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
}

func TestForService(t *testing.T) {
	svc := &models.Service{
		Availability: map[string]string{"mon": "9:00 AM - 12:00 PM"},
	}
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	slots := ForService(svc, monday, now)
	require.Len(t, slots, 3)
	assert.Equal(t, "9:00 AM", slots[0].Label)

	assert.Nil(t, ForService(svc, tuesday, now), "no availability entry means no slots")
	assert.Nil(t, ForService(nil, monday, now))
	assert.Nil(t, ForService(&models.Service{}, monday, now))
}
