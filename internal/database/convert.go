package database

// convert.go maps readings onto PostgreSQL wire types for COPY.

import (
	"strings"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgDate returns the calendar date of t.
func ToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ToPgTime returns the time of day of t with microsecond precision.
func ToPgTime(t time.Time) pgtype.Time {
	if t.IsZero() {
		return pgtype.Time{Valid: false}
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return pgtype.Time{Microseconds: t.Sub(midnight).Microseconds(), Valid: true}
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// CopyRow returns r's values in the order of core.Columns.
// Notes are written as an empty string, never NULL. The send timestamp is
// passed as time.Time so it encodes into timestamp and timestamptz alike.
func CopyRow(r core.Reading) []any {
	return []any{
		ToPgDate(r.ObservedAt),
		ToPgTime(r.ObservedAt),
		r.SensorID,
		r.ControllerID,
		r.LineID,
		r.FactoryID,
		r.ConcentrationPPM,
		int32(r.ClassificationID),
		r.Latitude,
		r.Longitude,
		r.Altitude,
		r.Temperature,
		r.Humidity,
		r.TransmissionStatus,
		r.SentAt,
		r.Notes,
		ToPgText(r.IntegrityHash),
		r.SourceFormat,
	}
}
