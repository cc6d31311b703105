package database

import (
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
)

// Factory is a row of the fabrica reference table.
type Factory struct {
	ID string `gorm:"column:id_fabrica;primaryKey"`
}

func (Factory) TableName() string { return core.RefFactory.Table }

// Line is a row of the linea reference table.
type Line struct {
	ID        string `gorm:"column:id_linea;primaryKey"`
	FactoryID string `gorm:"column:id_fabrica"`
}

func (Line) TableName() string { return core.RefLine.Table }

// Controller is a row of the microcontrolador reference table.
type Controller struct {
	ID     string `gorm:"column:id_micro;primaryKey"`
	LineID string `gorm:"column:id_linea"`
}

func (Controller) TableName() string { return core.RefController.Table }

// Sensor is a row of the sensor reference table.
type Sensor struct {
	ID           string `gorm:"column:id_sensor;primaryKey"`
	ControllerID string `gorm:"column:id_micro"`
}

func (Sensor) TableName() string { return core.RefSensor.Table }

// ReadingRow is a reading as stored in the local readings table.
type ReadingRow struct {
	ID                 uint      `gorm:"column:id_lectura;primaryKey;autoIncrement"`
	Date               string    `gorm:"column:fecha"`
	Time               string    `gorm:"column:hora"`
	SensorID           string    `gorm:"column:id_sensor"`
	ControllerID       string    `gorm:"column:id_micro"`
	LineID             string    `gorm:"column:id_linea"`
	FactoryID          string    `gorm:"column:id_fabrica"`
	ConcentrationPPM   float64   `gorm:"column:ppm_benceno"`
	ClassificationID   int       `gorm:"column:id_clasificacion"`
	Latitude           float64   `gorm:"column:geo_latitud"`
	Longitude          float64   `gorm:"column:geo_longitud"`
	Altitude           float64   `gorm:"column:geo_altitud"`
	Temperature        float64   `gorm:"column:temperatura"`
	Humidity           float64   `gorm:"column:humedad"`
	TransmissionStatus string    `gorm:"column:estado_transmision"`
	SentAt             time.Time `gorm:"column:timestamp_envio"`
	Notes              string    `gorm:"column:observaciones"`
	IntegrityHash      string    `gorm:"column:hash_integridad"`
	SourceFormat       string    `gorm:"column:origen_formato"`
}

func newReadingRow(r core.Reading) ReadingRow {
	return ReadingRow{
		Date:               r.Date(),
		Time:               r.Clock(),
		SensorID:           r.SensorID,
		ControllerID:       r.ControllerID,
		LineID:             r.LineID,
		FactoryID:          r.FactoryID,
		ConcentrationPPM:   r.ConcentrationPPM,
		ClassificationID:   r.ClassificationID,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		Altitude:           r.Altitude,
		Temperature:        r.Temperature,
		Humidity:           r.Humidity,
		TransmissionStatus: r.TransmissionStatus,
		SentAt:             r.SentAt,
		Notes:              r.Notes,
		IntegrityHash:      r.IntegrityHash,
		SourceFormat:       r.SourceFormat,
	}
}
