// Package influx mirrors simulated readings into an InfluxDB bucket.
package influx

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/sensorsim/internal/core"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// DefaultMeasurement is used when no measurement name is configured.
const DefaultMeasurement = "lecturas"

// Writer writes readings as points with the blocking write API.
type Writer struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	measurement string
}

// NewWriter returns a Writer for org/bucket on the server at url.
func NewWriter(url, token, org, bucket, measurement string) *Writer {
	client := influxdb2.NewClient(url, token)
	return newWriter(client, client.WriteAPIBlocking(org, bucket), measurement)
}

func newWriter(client influxdb2.Client, writeAPI api.WriteAPIBlocking, measurement string) *Writer {
	if measurement == "" {
		measurement = DefaultMeasurement
	}
	return &Writer{client: client, writeAPI: writeAPI, measurement: measurement}
}

// ToPoint converts a reading to a point in measurement, timestamped at the
// observation time.
func ToPoint(measurement string, r core.Reading) *write.Point {
	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			core.ColSensorID:     r.SensorID,
			core.ColControllerID: r.ControllerID,
			core.ColLineID:       r.LineID,
			core.ColFactoryID:    r.FactoryID,
			core.ColSourceFormat: r.SourceFormat,
		},
		map[string]any{
			core.ColConcentrationPPM: r.ConcentrationPPM,
			core.ColClassificationID: r.ClassificationID,
			core.ColLatitude:         r.Latitude,
			core.ColLongitude:        r.Longitude,
			core.ColAltitude:         r.Altitude,
			core.ColTemperature:      r.Temperature,
			core.ColHumidity:         r.Humidity,
			core.ColIntegrityHash:    r.IntegrityHash,
		},
		r.ObservedAt,
	)
}

// Write sends all readings in one blocking call.
func (w *Writer) Write(ctx context.Context, readings []core.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	points := make([]*write.Point, len(readings))
	for i, r := range readings {
		points[i] = ToPoint(w.measurement, r)
	}

	if err := w.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("failed to write to InfluxDB: %w", err)
	}
	return nil
}

// Close releases the client.
func (w *Writer) Close() {
	if w.client != nil {
		w.client.Close()
	}
}
