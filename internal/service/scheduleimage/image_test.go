package scheduleimage

import (
	"testing"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name     string
		start    dateutil.CalendarDate
		wantFrom string
		wantTo   string
	}{
		{
			name:     "wednesday snaps back to monday",
			start:    dateutil.CalendarDate{Year: 2025, Month: 4, Day: 9},
			wantFrom: "2025. 04. 07.",
			wantTo:   "2025. 04. 13.",
		},
		{
			name:     "monday is its own week start",
			start:    dateutil.CalendarDate{Year: 2025, Month: 4, Day: 7},
			wantFrom: "2025. 04. 07.",
			wantTo:   "2025. 04. 13.",
		},
		{
			name:     "sunday belongs to the preceding monday",
			start:    dateutil.CalendarDate{Year: 2025, Month: 4, Day: 13},
			wantFrom: "2025. 04. 07.",
			wantTo:   "2025. 04. 13.",
		},
		{
			name:     "week crossing a month boundary",
			start:    dateutil.CalendarDate{Year: 2025, Month: 5, Day: 1},
			wantFrom: "2025. 04. 28.",
			wantTo:   "2025. 05. 04.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := WeekRange(tt.start)
			assert.Equal(t, tt.wantFrom, from.Format())
			assert.Equal(t, tt.wantTo, to.Format())
		})
	}
}

// Запись на понедельник недели должна попадать в колонки даже когда
// стартовая дата — середина недели.
func TestGenerateWeekImageMidWeekStart(t *testing.T) {
	start := dateutil.CalendarDate{Year: 2025, Month: 4, Day: 9}
	from, _ := WeekRange(start)

	entries := []*model.ScheduleEntry{
		{Date: from.Format(), Hour: 10, DurationHours: 1, RoomName: "101", StudentName: "mina"},
	}
	rooms := []*model.Room{{ID: 1, Name: "101"}}

	img, err := GenerateWeekImage(start, entries, rooms)
	require.NoError(t, err)
	require.NotEmpty(t, img)
	assert.Equal(t, "\x89PNG", string(img[:4]))

	week := normalizeToWeekBounds(start.Time())
	byDay := groupEntriesByDay(entries)
	monday := dateutil.FromTime(week.start).Format()
	assert.Len(t, byDay[monday], 1)
}
