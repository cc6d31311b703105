package influx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

type fakeWriteAPI struct {
	api.WriteAPIBlocking
	calls  int
	points []*write.Point
	err    error
}

func (f *fakeWriteAPI) WritePoint(_ context.Context, points ...*write.Point) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, points...)
	return nil
}

func testReadings(n int) []core.Reading {
	eq := core.Equipment{SensorID: "A1S01", ControllerID: "A1M01", LineID: "A1", FactoryID: "A"}
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return core.NewSeededGenerator(9, core.GeneratorOptions{}).Generate(n, eq, start)
}

func TestToPoint(t *testing.T) {
	r := testReadings(1)[0]
	p := ToPoint("lecturas", r)

	if p.Name() != "lecturas" {
		t.Errorf("measurement = %q", p.Name())
	}
	if !p.Time().Equal(r.ObservedAt) {
		t.Errorf("time = %v, want %v", p.Time(), r.ObservedAt)
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	wantTags := map[string]string{
		"id_sensor":      "A1S01",
		"id_micro":       "A1M01",
		"id_linea":       "A1",
		"id_fabrica":     "A",
		"origen_formato": core.DefaultSourceFormat,
	}
	for k, v := range wantTags {
		if tags[k] != v {
			t.Errorf("tag %s = %q, want %q", k, tags[k], v)
		}
	}

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["ppm_benceno"] != r.ConcentrationPPM {
		t.Errorf("ppm field = %v, want %v", fields["ppm_benceno"], r.ConcentrationPPM)
	}
	if fields["id_clasificacion"] != int64(r.ClassificationID) {
		t.Errorf("classification field = %v (%T)", fields["id_clasificacion"], fields["id_clasificacion"])
	}
	if fields["hash_integridad"] != r.IntegrityHash {
		t.Errorf("hash field = %v", fields["hash_integridad"])
	}
	if len(fields) != 8 {
		t.Errorf("got %d fields, want 8", len(fields))
	}
}

func TestWriter_Write(t *testing.T) {
	fake := &fakeWriteAPI{}
	w := newWriter(nil, fake, "")

	if err := w.Write(context.Background(), testReadings(12)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("WritePoint calls = %d, want 1", fake.calls)
	}
	if len(fake.points) != 12 {
		t.Errorf("points = %d, want 12", len(fake.points))
	}
	if fake.points[0].Name() != DefaultMeasurement {
		t.Errorf("measurement = %q, want %q", fake.points[0].Name(), DefaultMeasurement)
	}
	w.Close()
}

func TestWriter_WriteError(t *testing.T) {
	writeErr := errors.New("unauthorized access")
	w := newWriter(nil, &fakeWriteAPI{err: writeErr}, "m")

	if err := w.Write(context.Background(), testReadings(2)); !errors.Is(err, writeErr) {
		t.Fatalf("Write() error = %v, want %v", err, writeErr)
	}
}

func TestWriter_WriteEmpty(t *testing.T) {
	fake := &fakeWriteAPI{}
	if err := newWriter(nil, fake, "m").Write(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if fake.calls != 0 {
		t.Errorf("WritePoint calls = %d, want 0", fake.calls)
	}
}
