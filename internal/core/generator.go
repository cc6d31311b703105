package core

import (
	"math"
	"math/rand/v2"
	"time"
)

// DefaultStep is the simulated interval between consecutive readings.
const DefaultStep = 10 * time.Second

// Value ranges for simulated measurements.
const (
	minPPM = 0.0
	maxPPM = 80.0

	baseLatitude  = 6.2442
	baseLongitude = -75.5812
	baseAltitude  = 1500.0

	coordJitter    = 0.01 // degrees
	altitudeJitter = 10.0 // metres

	minTemperature = 18.0
	maxTemperature = 35.0
	minHumidity    = 40.0
	maxHumidity    = 90.0
)

// GeneratorOptions tunes a Generator. Zero values fall back to defaults.
type GeneratorOptions struct {
	Step         time.Duration
	SourceFormat string
}

// Generator produces time-ordered simulated readings from a caller-supplied
// random source. A Generator is not safe for concurrent use.
type Generator struct {
	rng          *rand.Rand
	step         time.Duration
	sourceFormat string
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, opts GeneratorOptions) *Generator {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.SourceFormat == "" {
		opts.SourceFormat = DefaultSourceFormat
	}
	return &Generator{
		rng:          rng,
		step:         opts.Step,
		sourceFormat: opts.SourceFormat,
	}
}

// NewSeededGenerator returns a Generator whose sequence is fully determined by seed.
func NewSeededGenerator(seed uint64, opts GeneratorOptions) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed)), opts)
}

// Step returns the interval between readings.
func (g *Generator) Step() time.Duration {
	return g.step
}

// Generate returns exactly n readings for eq, the first at start and each
// following one a Step later. n <= 0 yields an empty slice.
func (g *Generator) Generate(n int, eq Equipment, start time.Time) []Reading {
	if n <= 0 {
		return []Reading{}
	}

	readings := make([]Reading, 0, n)
	instant := start

	for i := 0; i < n; i++ {
		ppm := round(g.uniform(minPPM, maxPPM), 2)

		r := Reading{
			ObservedAt:         instant,
			SensorID:           eq.SensorID,
			ControllerID:       eq.ControllerID,
			LineID:             eq.LineID,
			FactoryID:          eq.FactoryID,
			ConcentrationPPM:   ppm,
			ClassificationID:   Classify(ppm),
			Latitude:           baseLatitude + g.uniform(-coordJitter, coordJitter),
			Longitude:          baseLongitude + g.uniform(-coordJitter, coordJitter),
			Altitude:           baseAltitude + g.uniform(-altitudeJitter, altitudeJitter),
			Temperature:        round(g.uniform(minTemperature, maxTemperature), 1),
			Humidity:           round(g.uniform(minHumidity, maxHumidity), 1),
			TransmissionStatus: StatusSent,
			SentAt:             instant,
			SourceFormat:       g.sourceFormat,
		}
		// Hash last, once every other field is final.
		r.IntegrityHash = r.ComputeHash()

		readings = append(readings, r)
		instant = instant.Add(g.step)
	}

	return readings
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
