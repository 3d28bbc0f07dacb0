// Package codes generates the short record identifiers the dashboard uses for
// patients, appointments, reports and prescriptions.
package codes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrInvalidLength = errors.New("invalid code length")
)

const (
	// PatientCodeLength is the number of base36 characters after the "PT-" prefix.
	PatientCodeLength = 9

	// recordSpace bounds the numeric suffix of appointment/report/prescription ids.
	recordSpace = 10000

	charsetBase36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	PrefixPatient      = "PT-"
	PrefixAppointment  = "A"
	PrefixReport       = "R"
	PrefixPrescription = "P"
)

// NewPatientID returns an id for a patient that has not been synced yet,
// e.g. "PT-K3F9Q0Z1M".
func NewPatientID() string {
	code, err := GenerateCode(PatientCodeLength, charsetBase36Upper)
	if err != nil {
		panic(err)
	}
	return PrefixPatient + code
}

// NewAppointmentID returns "A" followed by a random number below 10000.
func NewAppointmentID() string { return PrefixAppointment + randomRecordNumber() }

// NewReportID returns "R" followed by a random number below 10000.
func NewReportID() string { return PrefixReport + randomRecordNumber() }

// NewPrescriptionID returns "P" followed by a random number below 10000.
func NewPrescriptionID() string { return PrefixPrescription + randomRecordNumber() }

// GenerateCode draws length characters uniformly from charset.
func GenerateCode(length int, charset string) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}
	if charset == "" {
		return "", errors.New("charset cannot be empty")
	}

	limit := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

func randomRecordNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(recordSpace))
	if err != nil {
		panic(fmt.Errorf("read random: %w", err))
	}
	return n.String()
}
