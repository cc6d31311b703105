package core

import (
	"time"
)

// DefaultSourceFormat tags readings produced by this simulator.
const DefaultSourceFormat = "simulacion_go"

// StatusSent is the transmission status recorded for every simulated reading.
const StatusSent = "O"

// Canonical column names, in the order readings are exported and inserted.
// The server-generated id_lectura key is never written.
const (
	ColDate               = "fecha"
	ColTime               = "hora"
	ColSensorID           = "id_sensor"
	ColControllerID       = "id_micro"
	ColLineID             = "id_linea"
	ColFactoryID          = "id_fabrica"
	ColConcentrationPPM   = "ppm_benceno"
	ColClassificationID   = "id_clasificacion"
	ColLatitude           = "geo_latitud"
	ColLongitude          = "geo_longitud"
	ColAltitude           = "geo_altitud"
	ColTemperature        = "temperatura"
	ColHumidity           = "humedad"
	ColTransmissionStatus = "estado_transmision"
	ColSentAt             = "timestamp_envio"
	ColNotes              = "observaciones"
	ColIntegrityHash      = "hash_integridad"
	ColSourceFormat       = "origen_formato"
)

// Columns lists every Reading column in canonical order.
var Columns = []string{
	ColDate,
	ColTime,
	ColSensorID,
	ColControllerID,
	ColLineID,
	ColFactoryID,
	ColConcentrationPPM,
	ColClassificationID,
	ColLatitude,
	ColLongitude,
	ColAltitude,
	ColTemperature,
	ColHumidity,
	ColTransmissionStatus,
	ColSentAt,
	ColNotes,
	ColIntegrityHash,
	ColSourceFormat,
}

// Layouts used wherever a Reading is rendered as text.
const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04:05"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Equipment names the originating device and its place in the plant hierarchy
// (factory -> line -> controller -> sensor).
type Equipment struct {
	SensorID     string
	ControllerID string
	LineID       string
	FactoryID    string
}

// Reading is one simulated sensor observation.
type Reading struct {
	ObservedAt time.Time // date and time-of-day of the observation

	SensorID     string
	ControllerID string
	LineID       string
	FactoryID    string

	ConcentrationPPM float64
	ClassificationID int

	Latitude  float64
	Longitude float64
	Altitude  float64

	Temperature float64
	Humidity    float64

	TransmissionStatus string
	SentAt             time.Time
	Notes              string
	IntegrityHash      string
	SourceFormat       string
}

// Equipment returns the identifiers the reading was recorded under.
func (r Reading) Equipment() Equipment {
	return Equipment{
		SensorID:     r.SensorID,
		ControllerID: r.ControllerID,
		LineID:       r.LineID,
		FactoryID:    r.FactoryID,
	}
}

// Date returns the observation date as YYYY-MM-DD.
func (r Reading) Date() string {
	return r.ObservedAt.Format(DateLayout)
}

// Clock returns the observation time of day, with microseconds only when present.
func (r Reading) Clock() string {
	return formatClock(r.ObservedAt)
}

// Values returns the reading's fields in the order of Columns.
// Date and time columns are rendered as text.
func (r Reading) Values() []any {
	return []any{
		r.Date(),
		r.Clock(),
		r.SensorID,
		r.ControllerID,
		r.LineID,
		r.FactoryID,
		r.ConcentrationPPM,
		r.ClassificationID,
		r.Latitude,
		r.Longitude,
		r.Altitude,
		r.Temperature,
		r.Humidity,
		r.TransmissionStatus,
		r.SentAt.Format(TimestampLayout),
		r.Notes,
		r.IntegrityHash,
		r.SourceFormat,
	}
}

// formatClock renders a time of day the way the integrity hash expects it:
// HH:MM:SS, followed by six microsecond digits only when they are non-zero.
func formatClock(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format("15:04:05.000000")
	}
	return t.Format(ClockLayout)
}
