// Package spreadsheet exports simulated readings to .xlsx workbooks and reads
// them back.
//
// A workbook holds a single sheet. Row 1 is the header with the canonical
// column names from core.Columns; every following row is one reading in the
// same column order. Numeric fields are stored as numeric cells; dates and
// times are stored as text so they survive any spreadsheet locale.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the readings.
const SheetName = "lecturas"

// ErrMissingColumn is returned when a workbook header lacks a canonical column.
var ErrMissingColumn = errors.New("missing column")

// FileName returns the workbook name for a sensor: lecturas-sensor_<id>.xlsx.
func FileName(sensorID string) string {
	return fmt.Sprintf("lecturas-sensor_%s.xlsx", sensorID)
}

// WriteFile writes readings to dir/FileName(sensorID), creating or
// overwriting it, and returns the path written.
func WriteFile(dir, sensorID string, readings []core.Reading) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f, err := build(readings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(dir, FileName(sensorID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}
	return path, nil
}

// Write serializes readings as an .xlsx workbook to w.
func Write(w io.Writer, readings []core.Reading) error {
	f, err := build(readings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(readings []core.Reading) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(core.Columns))
	for i, col := range core.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range readings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := r.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// ReadFile reads a workbook previously produced by WriteFile.
func ReadFile(path string) ([]core.Reading, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readRows(f)
}

// Read parses a workbook from r.
func Read(r io.Reader) ([]core.Reading, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readRows(f)
}

func readRows(f *excelize.File) ([]core.Reading, error) {
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: %w: header row is empty", SheetName, ErrMissingColumn)
	}

	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	readings := make([]core.Reading, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		r, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		readings = append(readings, r)
	}

	return readings, nil
}

// headerIndex maps each canonical column to its position in the header row.
func headerIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range core.Columns {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return pos, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowParser collects the first conversion error so parseRow reads straight through.
type rowParser struct {
	row []string
	idx map[string]int
	err error
}

func (p *rowParser) text(col string) string {
	i := p.idx[col]
	if i >= len(p.row) {
		return ""
	}
	return p.row[i]
}

func (p *rowParser) number(col string) float64 {
	s := strings.TrimSpace(p.text(col))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid number %q", col, s)
	}
	return v
}

func (p *rowParser) integer(col string) int {
	s := strings.TrimSpace(p.text(col))
	v, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		// Some editors rewrite integers as "3.0"
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == float64(int(f)) {
			return int(f)
		}
		p.err = fmt.Errorf("%s: invalid number %q", col, s)
	}
	return v
}

func (p *rowParser) timestamp(col, value, layout string) time.Time {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(value), time.UTC)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: invalid date %q", col, value)
	}
	return t
}

func parseRow(row []string, idx map[string]int) (core.Reading, error) {
	p := &rowParser{row: row, idx: idx}

	observed := p.timestamp(core.ColTime,
		p.text(core.ColDate)+" "+p.text(core.ColTime), core.TimestampLayout)

	r := core.Reading{
		ObservedAt:         observed,
		SensorID:           p.text(core.ColSensorID),
		ControllerID:       p.text(core.ColControllerID),
		LineID:             p.text(core.ColLineID),
		FactoryID:          p.text(core.ColFactoryID),
		ConcentrationPPM:   p.number(core.ColConcentrationPPM),
		ClassificationID:   p.integer(core.ColClassificationID),
		Latitude:           p.number(core.ColLatitude),
		Longitude:          p.number(core.ColLongitude),
		Altitude:           p.number(core.ColAltitude),
		Temperature:        p.number(core.ColTemperature),
		Humidity:           p.number(core.ColHumidity),
		TransmissionStatus: p.text(core.ColTransmissionStatus),
		SentAt:             p.timestamp(core.ColSentAt, p.text(core.ColSentAt), core.TimestampLayout),
		Notes:              p.text(core.ColNotes),
		IntegrityHash:      p.text(core.ColIntegrityHash),
		SourceFormat:       p.text(core.ColSourceFormat),
	}

	if p.err != nil {
		return core.Reading{}, p.err
	}
	return r, nil
}
