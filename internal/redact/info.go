// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"regexp"
	"strings"
)

// Gender values as printed on the reports.
const (
	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
)

// ageRe captures the age from the "(NN años)" pattern next to the patient
// header.
var ageRe = regexp.MustCompile(`\((\d+) años\)`)

// PatientInfo is the demographic text recovered from a redaction region
// before it is painted over.
type PatientInfo struct {
	Gender string
	Age    string
}

// ExtractPatientInfo scans region text for the gender literal and the age
// pattern. Only the first age match is used.
func ExtractPatientInfo(text string) PatientInfo {
	var info PatientInfo

	if strings.Contains(text, GenderMale) {
		info.Gender = GenderMale
	} else if strings.Contains(text, GenderFemale) {
		info.Gender = GenderFemale
	}

	if m := ageRe.FindStringSubmatch(text); m != nil {
		info.Age = "(" + m[1] + " años)"
	}

	return info
}

// Empty reports whether neither gender nor age was found.
func (pi PatientInfo) Empty() bool {
	return pi.Gender == "" && pi.Age == ""
}

// Label renders the recovered info as overlay text, e.g. "Masculino (45 años)".
func (pi PatientInfo) Label() string {
	var parts []string
	if pi.Gender != "" {
		parts = append(parts, pi.Gender)
	}
	if pi.Age != "" {
		parts = append(parts, pi.Age)
	}
	return strings.Join(parts, " ")
}
