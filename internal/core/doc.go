// Package core provides the simulated sensor readings and the pure logic around them.
//
// This package is the heart of the simulator, containing the domain logic
// independent of any storage or transport. Spreadsheet export, database
// loading and the CLI all build on it.
//
// # Readings
//
// A [Reading] is one benzene sensor observation. Its fields map one-to-one
// onto [Columns], which is the column order used by every exporter and loader.
//
// # Generation
//
// [Generator] produces readings spaced a fixed [DefaultStep] apart. The random
// source is always supplied by the caller, so a run is reproducible from its seed:
//
//	gen := core.NewSeededGenerator(42, core.GeneratorOptions{})
//	readings := gen.Generate(1000, core.Equipment{SensorID: "A1S01"}, start)
//
// # Classification and Integrity
//
// [Classify] maps a concentration to a severity tier 1..6 using fixed
// thresholds. [IntegrityHash] tags each reading with a digest of its
// date, time, sensor and concentration; [Reading.VerifyHash] checks it.
//
// # Error Handling
//
// Technical errors are mapped to operator-friendly messages using [MapError].
package core
