package core

import (
	"testing"
	"time"
)

var testEquipment = Equipment{
	SensorID:     "A1S01",
	ControllerID: "A1M01",
	LineID:       "A1",
	FactoryID:    "A",
}

var testStart = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func TestGenerate_Count(t *testing.T) {
	gen := NewSeededGenerator(1, GeneratorOptions{})

	for _, n := range []int{-1, 0, 1, 7, 250} {
		got := gen.Generate(n, testEquipment, testStart)
		want := n
		if want < 0 {
			want = 0
		}
		if len(got) != want {
			t.Errorf("Generate(%d) returned %d readings, want %d", n, len(got), want)
		}
	}
}

func TestGenerate_FixedStep(t *testing.T) {
	gen := NewSeededGenerator(1, GeneratorOptions{})
	readings := gen.Generate(100, testEquipment, testStart)

	for i, r := range readings {
		want := testStart.Add(time.Duration(i) * 10 * time.Second)
		if !r.ObservedAt.Equal(want) {
			t.Fatalf("reading[%d].ObservedAt = %v, want %v", i, r.ObservedAt, want)
		}
		if !r.SentAt.Equal(r.ObservedAt) {
			t.Fatalf("reading[%d].SentAt = %v, want %v", i, r.SentAt, r.ObservedAt)
		}
	}
}

func TestGenerate_CustomStep(t *testing.T) {
	gen := NewSeededGenerator(1, GeneratorOptions{Step: time.Minute})
	readings := gen.Generate(3, testEquipment, testStart)

	if got := readings[2].ObservedAt.Sub(readings[0].ObservedAt); got != 2*time.Minute {
		t.Errorf("span = %v, want %v", got, 2*time.Minute)
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	gen := NewSeededGenerator(2025, GeneratorOptions{})
	readings := gen.Generate(3, testEquipment, testStart)

	wantClocks := []string{"08:00:00", "08:00:10", "08:00:20"}
	for i, r := range readings {
		if r.Clock() != wantClocks[i] {
			t.Errorf("reading[%d].Clock() = %q, want %q", i, r.Clock(), wantClocks[i])
		}
		if r.Date() != "2025-01-01" {
			t.Errorf("reading[%d].Date() = %q, want 2025-01-01", i, r.Date())
		}
		if r.ClassificationID != Classify(r.ConcentrationPPM) {
			t.Errorf("reading[%d] classification %d inconsistent with ppm %v",
				i, r.ClassificationID, r.ConcentrationPPM)
		}
	}
}

func TestGenerate_FieldInvariants(t *testing.T) {
	gen := NewSeededGenerator(7, GeneratorOptions{})
	readings := gen.Generate(500, testEquipment, testStart)

	for i, r := range readings {
		if r.ConcentrationPPM < minPPM || r.ConcentrationPPM > maxPPM {
			t.Errorf("reading[%d] ppm %v out of range", i, r.ConcentrationPPM)
		}
		if r.ClassificationID != Classify(r.ConcentrationPPM) {
			t.Errorf("reading[%d] classification %d, want %d", i, r.ClassificationID, Classify(r.ConcentrationPPM))
		}
		if r.Latitude < baseLatitude-coordJitter || r.Latitude > baseLatitude+coordJitter {
			t.Errorf("reading[%d] latitude %v out of range", i, r.Latitude)
		}
		if r.Longitude < baseLongitude-coordJitter || r.Longitude > baseLongitude+coordJitter {
			t.Errorf("reading[%d] longitude %v out of range", i, r.Longitude)
		}
		if r.Altitude < baseAltitude-altitudeJitter || r.Altitude > baseAltitude+altitudeJitter {
			t.Errorf("reading[%d] altitude %v out of range", i, r.Altitude)
		}
		if r.Temperature < minTemperature || r.Temperature > maxTemperature {
			t.Errorf("reading[%d] temperature %v out of range", i, r.Temperature)
		}
		if r.Humidity < minHumidity || r.Humidity > maxHumidity {
			t.Errorf("reading[%d] humidity %v out of range", i, r.Humidity)
		}
		if r.TransmissionStatus != StatusSent {
			t.Errorf("reading[%d] status %q", i, r.TransmissionStatus)
		}
		if r.Notes != "" {
			t.Errorf("reading[%d] notes %q, want empty", i, r.Notes)
		}
		if r.SourceFormat != DefaultSourceFormat {
			t.Errorf("reading[%d] source format %q", i, r.SourceFormat)
		}
		if r.Equipment() != testEquipment {
			t.Errorf("reading[%d] equipment %+v", i, r.Equipment())
		}
		if !r.VerifyHash() {
			t.Errorf("reading[%d] hash does not verify", i)
		}
	}
}

func TestGenerate_SameSeedSameValues(t *testing.T) {
	a := NewSeededGenerator(99, GeneratorOptions{}).Generate(20, testEquipment, testStart)
	b := NewSeededGenerator(99, GeneratorOptions{}).Generate(20, testEquipment, testStart)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reading[%d] differs between runs with the same seed", i)
		}
	}
}

func TestGenerate_SourceFormatOverride(t *testing.T) {
	gen := NewSeededGenerator(1, GeneratorOptions{SourceFormat: "bench"})
	r := gen.Generate(1, testEquipment, testStart)[0]
	if r.SourceFormat != "bench" {
		t.Errorf("SourceFormat = %q, want %q", r.SourceFormat, "bench")
	}
}

func TestReading_ValuesMatchColumns(t *testing.T) {
	r := NewSeededGenerator(1, GeneratorOptions{}).Generate(1, testEquipment, testStart)[0]
	values := r.Values()

	if len(values) != len(Columns) {
		t.Fatalf("Values() has %d entries, Columns has %d", len(values), len(Columns))
	}
	if values[0] != "2025-01-01" || values[1] != "08:00:00" {
		t.Errorf("date/time values = %v, %v", values[0], values[1])
	}
	if values[14] != "2025-01-01 08:00:00" {
		t.Errorf("sent_at value = %v", values[14])
	}
	if values[16] != r.IntegrityHash {
		t.Errorf("hash value = %v, want %v", values[16], r.IntegrityHash)
	}
}
