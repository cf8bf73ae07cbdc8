package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationOrUTC(t *testing.T) {
	assert.Equal(t, "Europe/Moscow", LocationOrUTC("Europe/Moscow").String())
	assert.Equal(t, time.UTC, LocationOrUTC(""))
	assert.Equal(t, time.UTC, LocationOrUTC("Mars/Olympus"))
	// Повторный вызов идёт из кеша и возвращает тот же указатель
	assert.Same(t, LocationOrUTC("Europe/Moscow"), LocationOrUTC("Europe/Moscow"))
}

func TestIsValidTimeZone(t *testing.T) {
	assert.True(t, IsValidTimeZone("Europe/Moscow"))
	assert.True(t, IsValidTimeZone("America/New_York"))
	assert.False(t, IsValidTimeZone(""))
	assert.False(t, IsValidTimeZone("Mars/Olympus"))
}

func TestLocalToUTC(t *testing.T) {
	// Москва: UTC+3 круглый год
	got := LocalToUTC("2026-03-15", "10:00", "Europe/Moscow")
	assert.Equal(t, time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), got)

	// "24:00" — полночь следующего календарного дня
	got = LocalToUTC("2026-03-15", "24:00", "Europe/Moscow")
	assert.Equal(t, time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC), got)

	// Некорректная дата — нулевое время
	assert.True(t, LocalToUTC("not-a-date", "10:00", "UTC").IsZero())

	// Некорректное время трактуется как "00:00"
	got = LocalToUTC("2026-03-15", "nope!", "UTC")
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestLocalToUTC_DSTTransition(t *testing.T) {
	// 8 марта 2026, США: в 02:00 местного часы переводятся на 03:00.
	// До перехода восточное время UTC-5, после — UTC-4.
	before := LocalToUTC("2026-03-08", "01:00", "America/New_York")
	assert.Equal(t, time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC), before)

	after := LocalToUTC("2026-03-08", "04:00", "America/New_York")
	assert.Equal(t, time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC), after)

	// Локальный день перехода длится 23 часа
	start, end := DayBoundsUTC("2026-03-08", "America/New_York")
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestUTCToLocalHM_RoundTrip(t *testing.T) {
	instant := LocalToUTC("2026-03-15", "18:45", "Asia/Yekaterinburg")
	assert.Equal(t, "18:45", UTCToLocalHM(instant, "Asia/Yekaterinburg").String())
}

func TestUTCToLocalDate(t *testing.T) {
	// 22:00 UTC 15 марта — уже 16 марта по Москве
	instant := time.Date(2026, 3, 15, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-16", UTCToLocalDate(instant, "Europe/Moscow"))
	assert.Equal(t, "2026-03-15", UTCToLocalDate(instant, "UTC"))
}

func TestLocalWeekday(t *testing.T) {
	// 15 марта 2026 — воскресенье
	assert.Equal(t, time.Sunday, LocalWeekday("2026-03-15", "Europe/Moscow"))
	assert.Equal(t, time.Monday, LocalWeekday("2026-03-16", "Europe/Moscow"))
	assert.Equal(t, time.Sunday, LocalWeekday("bad-date", "UTC"))
}

func TestDayBoundsUTC(t *testing.T) {
	start, end := DayBoundsUTC("2026-03-15", "Europe/Moscow")
	assert.Equal(t, time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestValidDateISO(t *testing.T) {
	assert.True(t, ValidDateISO("2026-03-15"))
	assert.False(t, ValidDateISO("2026-3-15"))
	assert.False(t, ValidDateISO("15.03.2026"))
	assert.False(t, ValidDateISO(""))
}
