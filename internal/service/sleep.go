package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

type SleepRecordRequest struct {
	Bedtime  string `json:"bedtime"`
	WakeTime string `json:"wake_time"`
}

// Accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSleepTimes runs the validation pipeline for a sleep record request:
// presence, format, ordering, then the future-timestamp rule against the
// injected reference instant. Parsing has no clock dependency, so the same
// raw pair always yields the same instants.
func ParseSleepTimes(bedtimeRaw, wakeTimeRaw string, now time.Time) (time.Time, time.Time, error) {
	if bedtimeRaw == "" {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeMissingField, "Bedtime is required")
	}
	if wakeTimeRaw == "" {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeMissingField, "Wake time is required")
	}

	bedtime, ok := parseTimestamp(bedtimeRaw)
	if !ok {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeInvalidFormat, "Invalid date/time format")
	}
	wakeTime, ok := parseTimestamp(wakeTimeRaw)
	if !ok {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeInvalidFormat, "Invalid date/time format")
	}

	if !wakeTime.After(bedtime) {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeInvalidOrdering, "Wake time must be after bedtime")
	}
	if bedtime.After(now) {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeUnprocessable, "Bedtime cannot be in the future")
	}
	if wakeTime.After(now) {
		return time.Time{}, time.Time{}, internal.NewUnprocessable(internal.CodeUnprocessable, "Wake time cannot be in the future")
	}
	return bedtime, wakeTime, nil
}

// DeriveDuration is the floor of the elapsed time in whole minutes.
func DeriveDuration(bedtime, wakeTime time.Time) int {
	return int(wakeTime.Sub(bedtime) / time.Minute)
}

// PreviousWeekWindow returns the inclusive bounds of the calendar week before
// the one containing now. Weeks run Monday 00:00:00 through the last
// nanosecond of Sunday, in now's location.
func PreviousWeekWindow(now time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	thisWeekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceMonday)
	start := thisWeekStart.AddDate(0, 0, -7)
	end := thisWeekStart.Add(-time.Nanosecond)
	return start, end
}

func WithinPreviousCalendarWeek(bedtime, now time.Time) bool {
	start, end := PreviousWeekWindow(now)
	return !bedtime.Before(start) && !bedtime.After(end)
}

// CreateSleepRecord validates the raw request, derives the duration and
// persists a record owned by user. Nothing is written on any validation
// failure.
func CreateSleepRecord(ctx context.Context, sleepRepo storage.SleepRecordRepository, user *internal.User, req *SleepRecordRequest, now time.Time) (*internal.SleepRecord, error) {
	bedtime, wakeTime, err := ParseSleepTimes(req.Bedtime, req.WakeTime, now)
	if err != nil {
		return nil, err
	}

	duration := DeriveDuration(bedtime, wakeTime)
	if duration <= 0 {
		return nil, internal.NewUnprocessableWithData(internal.CodeUnprocessable,
			"Failed to create sleep record",
			map[string]any{"errors": []string{"duration_minutes must be greater than 0"}})
	}

	record := &internal.SleepRecord{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Bedtime:         bedtime,
		WakeTime:        wakeTime,
		DurationMinutes: duration,
		CreatedAt:       now,
	}
	if err := sleepRepo.SaveSleepRecord(ctx, record); err != nil {
		return nil, internal.NewInternalError("Failed to create sleep record")
	}
	return record, nil
}

// AggregateFollowedPreviousWeek returns the previous-week sleep records of
// everyone the user follows, longest sleep first, along with the resolved
// following set. An empty following set short-circuits without touching the
// sleep store.
func AggregateFollowedPreviousWeek(ctx context.Context, followRepo storage.FollowRepository, sleepRepo storage.SleepRecordRepository, user *internal.User, now time.Time) ([]internal.SleepRecord, []internal.User, error) {
	following, err := followRepo.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(following) == 0 {
		return []internal.SleepRecord{}, []internal.User{}, nil
	}

	userIDs := make([]string, len(following))
	for i, u := range following {
		userIDs[i] = u.ID
	}

	from, to := PreviousWeekWindow(now)
	records, err := sleepRepo.ListSleepRecordsInWindow(ctx, userIDs, from, to)
	if err != nil {
		return nil, nil, err
	}
	return records, following, nil
}
