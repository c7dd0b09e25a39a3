package nlp

import (
	"strings"
)

const defaultDoctor = "Dr. Smith"

// articles are leading filler words stripped from a captured name.
var articles = map[string]bool{
	"a":   true,
	"an":  true,
	"the": true,
	"my":  true,
}

// cleanName strips leading articles from a captured name and rejects captures
// that are command structure rather than a person, so "book an appointment"
// yields no patient name instead of booking for "An Appointment".
func cleanName(raw string) string {
	words := strings.Fields(raw)
	for len(words) > 0 && articles[words[0]] {
		words = words[1:]
	}
	for _, word := range words {
		if word == "appointment" || word == "appointments" {
			return ""
		}
	}
	return strings.Join(words, " ")
}

// extractAppointmentEntities pulls the patient name from the winning match
// and scans the full command for a time token and a doctor reference. Both
// helpers are pure; absent values stay zero.
func extractAppointmentEntities(command string, match []string) BookAppointmentEntities {
	var entities BookAppointmentEntities

	if len(match) > 1 {
		entities.PatientName = cleanName(match[1])
	}

	for _, pattern := range timeTokens {
		if m := pattern.FindStringSubmatch(command); m != nil {
			entities.TimeToken = m[1]
			break
		}
	}

	if m := doctorName.FindStringSubmatch(command); m != nil {
		entities.DoctorName = strings.TrimSpace(m[1])
	} else {
		entities.DoctorName = defaultDoctor
	}

	return entities
}

func extractPatientEntities(match []string) QueryPatientEntities {
	var entities QueryPatientEntities

	if len(match) > 1 {
		entities.PatientName = cleanName(match[1])
	}

	return entities
}
