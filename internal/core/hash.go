package core

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// ErrIntegrityMismatch is returned when a stored integrity hash no longer
// matches the reading it tags.
var ErrIntegrityMismatch = errors.New("integrity mismatch")

// IntegrityHash returns the hex MD5 digest of date+clock+sensorID+ppm.
// The tag is for illustrative tamper evidence only; MD5 is not collision resistant.
func IntegrityHash(date, clock, sensorID string, ppm float64) string {
	var b strings.Builder
	b.WriteString(date)
	b.WriteString(clock)
	b.WriteString(sensorID)
	b.WriteString(formatPPM(ppm))

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ComputeHash returns the integrity hash for the reading's current fields.
func (r Reading) ComputeHash() string {
	return IntegrityHash(r.Date(), r.Clock(), r.SensorID, r.ConcentrationPPM)
}

// VerifyHash reports whether the stored hash matches the reading.
func (r Reading) VerifyHash() bool {
	return r.IntegrityHash != "" && r.IntegrityHash == r.ComputeHash()
}

// formatPPM renders a concentration as the shortest round-trip decimal,
// keeping a trailing ".0" on whole numbers so digests stay comparable with
// readings tagged by earlier tooling.
func formatPPM(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
