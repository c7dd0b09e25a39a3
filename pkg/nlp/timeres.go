package nlp

import (
	"strconv"
	"strings"
	"time"
)

// ResolveTime turns a spoken time token plus the surrounding command into an
// absolute timestamp. The reference clock is injected so the function stays
// deterministic.
//
// The base day comes from relative day words in the full command (tomorrow,
// today, next week) and defaults to one hour of lead time. A parseable token
// overlays its hour and minute onto the base day with seconds zeroed; an
// unparseable token falls back to its first integer with am/pm adjustment;
// no token at all yields the top of the base hour. Nothing here ever
// propagates a failure: the worst case is now plus one hour.
//
// The am/pm correction applies to both branches: the general parser reads
// "12 am" as 12:00, so midnight has to be restored after the parse too.
func ResolveTime(timeToken, fullText string, now time.Time) (resolved time.Time) {
	setup()

	defer func() {
		if r := recover(); r != nil {
			resolved = now.Add(time.Hour)
		}
	}()

	lowered := strings.ToLower(fullText)

	var base time.Time
	switch {
	case strings.Contains(lowered, "tomorrow"):
		base = now.AddDate(0, 0, 1)
	case strings.Contains(lowered, "today"):
		base = now
	case strings.Contains(lowered, "next week"):
		base = now.AddDate(0, 0, 7)
	default:
		base = now.Add(time.Hour)
	}

	if timeToken != "" {
		token := strings.ToLower(timeToken)

		if result, err := timeParser.Parse(timeToken, base); err == nil && result != nil {
			hour := meridiemAdjust(result.Time.Hour(), token)
			return time.Date(base.Year(), base.Month(), base.Day(),
				hour, result.Time.Minute(), 0, 0, base.Location())
		}

		if m := firstInt.FindStringSubmatch(timeToken); m != nil {
			hour, err := strconv.Atoi(m[1])
			if err == nil {
				if hour > 23 {
					return now.Add(time.Hour)
				}

				return time.Date(base.Year(), base.Month(), base.Day(),
					meridiemAdjust(hour, token), 0, 0, 0, base.Location())
			}
		}
	}

	return time.Date(base.Year(), base.Month(), base.Day(),
		base.Hour(), 0, 0, 0, base.Location())
}

// meridiemAdjust maps a spoken hour onto the 24-hour clock: "12 am" is
// midnight, "3 pm" is 15.
func meridiemAdjust(hour int, token string) int {
	if strings.Contains(token, "pm") && hour < 12 {
		hour += 12
	}
	if strings.Contains(token, "am") && hour == 12 {
		hour = 0
	}
	return hour
}
