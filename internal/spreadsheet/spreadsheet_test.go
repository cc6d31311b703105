package spreadsheet

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/xuri/excelize/v2"
)

var testEquipment = core.Equipment{SensorID: "A1S01", ControllerID: "A1M01", LineID: "A1", FactoryID: "A"}

func generate(n int) []core.Reading {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return core.NewSeededGenerator(11, core.GeneratorOptions{}).Generate(n, testEquipment, start)
}

func TestFileName(t *testing.T) {
	if got := FileName("A1S01"); got != "lecturas-sensor_A1S01.xlsx" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	readings := generate(25)

	path, err := WriteFile(dir, "A1S01", readings)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != filepath.Join(dir, "lecturas-sensor_A1S01.xlsx") {
		t.Errorf("path = %q", path)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != len(readings) {
		t.Fatalf("read %d readings, want %d", len(got), len(readings))
	}

	for i := range readings {
		assertReadingEqual(t, i, got[i], readings[i])
	}
}

func TestWrite_Reader_RoundTrip(t *testing.T) {
	readings := generate(3)

	var buf bytes.Buffer
	if err := Write(&buf, readings); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("read %d readings, want 3", len(got))
	}
	wantClocks := []string{"08:00:00", "08:00:10", "08:00:20"}
	for i, r := range got {
		if r.Clock() != wantClocks[i] {
			t.Errorf("row %d clock = %q, want %q", i, r.Clock(), wantClocks[i])
		}
		if !r.VerifyHash() {
			t.Errorf("row %d hash does not verify after round trip", i)
		}
	}
}

func TestWriteFile_Empty(t *testing.T) {
	path, err := WriteFile(t.TempDir(), "A1S01", nil)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("read %d readings, want 0", len(got))
	}
}

func TestWriteFile_HeaderAndSheet(t *testing.T) {
	path, err := WriteFile(t.TempDir(), "A1S01", generate(1))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	if list := f.GetSheetList(); len(list) != 1 || list[0] != SheetName {
		t.Errorf("sheets = %v, want [%s]", list, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	for i, col := range core.Columns {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteFile(dir, "A1S01", generate(10)); err != nil {
		t.Fatalf("first WriteFile() error = %v", err)
	}
	path, err := WriteFile(dir, "A1S01", generate(2))
	if err != nil {
		t.Fatalf("second WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d readings after overwrite, want 2", len(got))
	}
}

func TestWriteFile_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A regular file in place of the directory makes MkdirAll fail.
	if _, err := WriteFile(filepath.Join(blocker, "sub"), "A1S01", generate(1)); err == nil {
		t.Fatal("WriteFile() expected error for unusable directory")
	}
}

func TestReadFile_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		t.Fatal(err)
	}
	header := []any{core.ColDate, core.ColTime, core.ColSensorID}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "partial.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err := ReadFile(path)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("ReadFile() error = %v, want ErrMissingColumn", err)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatal("ReadFile() expected error for missing file")
	}
}

func assertReadingEqual(t *testing.T, i int, got, want core.Reading) {
	t.Helper()

	const eps = 1e-9
	floats := []struct {
		name      string
		got, want float64
	}{
		{"ppm", got.ConcentrationPPM, want.ConcentrationPPM},
		{"lat", got.Latitude, want.Latitude},
		{"lon", got.Longitude, want.Longitude},
		{"alt", got.Altitude, want.Altitude},
		{"temperature", got.Temperature, want.Temperature},
		{"humidity", got.Humidity, want.Humidity},
	}
	for _, f := range floats {
		if math.Abs(f.got-f.want) > eps {
			t.Errorf("row %d %s = %v, want %v", i, f.name, f.got, f.want)
		}
	}

	if !got.ObservedAt.Equal(want.ObservedAt) {
		t.Errorf("row %d ObservedAt = %v, want %v", i, got.ObservedAt, want.ObservedAt)
	}
	if !got.SentAt.Equal(want.SentAt) {
		t.Errorf("row %d SentAt = %v, want %v", i, got.SentAt, want.SentAt)
	}
	if got.Equipment() != want.Equipment() {
		t.Errorf("row %d equipment = %+v, want %+v", i, got.Equipment(), want.Equipment())
	}
	if got.ClassificationID != want.ClassificationID {
		t.Errorf("row %d classification = %d, want %d", i, got.ClassificationID, want.ClassificationID)
	}
	if got.TransmissionStatus != want.TransmissionStatus || got.Notes != want.Notes ||
		got.IntegrityHash != want.IntegrityHash || got.SourceFormat != want.SourceFormat {
		t.Errorf("row %d text fields = %+v, want %+v", i, got, want)
	}
}
