package nlp

import (
	"strings"
)

// Normalize lowercases the transcript, strips punctuation except `@ . : , -`
// and collapses runs of whitespace. The result is what every pattern in the
// registry is matched against.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctuation.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Classify matches the normalized text against every pattern in registry
// order and keeps the single best match. Confidence is the matched length
// over the text length; a later match replaces the winner only when its
// confidence is strictly greater, so ties resolve to the earliest pattern.
// Classify is total: it never panics and degrades to ("unknown", nil, 0.0).
func Classify(text string) (intent string, entities Entities, confidence float64) {
	setup()

	defer func() {
		if r := recover(); r != nil {
			intent, entities, confidence = IntentUnknown, nil, 0.0
		}
	}()

	intent = IntentUnknown
	normalized := Normalize(text)
	if normalized == "" {
		return intent, nil, 0.0
	}

	for _, candidate := range registry {
		for _, pattern := range candidate.patterns {
			match := pattern.FindStringSubmatch(normalized)
			if match == nil {
				continue
			}

			score := float64(len(match[0])) / float64(len(normalized))
			if score <= confidence {
				continue
			}

			intent = candidate.intent
			confidence = score

			// Extraction is recomputed for every new winner and the
			// previous winner's entities are discarded.
			switch candidate.intent {
			case IntentBookAppointment:
				entities = extractAppointmentEntities(normalized, match)
			case IntentQueryPatient:
				entities = extractPatientEntities(match)
			default:
				entities = nil
			}
		}
	}

	return intent, entities, confidence
}
