package nlp

import (
	"regexp"
	"sync"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// name captures a run of words and consumes the connective that ends it, so
// "book an appointment for john doe at 3 pm" yields "john doe".
const name = `([a-z]+(?:\s+[a-z]+)*?)(?:\s+(?:at|on|with|by|tomorrow|today|next)\b|\s*$)`

type intentPatterns struct {
	intent   string
	patterns []*regexp.Regexp
}

var (
	setupOnce sync.Once

	// registry holds (intent, patterns) in a fixed order; classification
	// iterates it verbatim and ties keep the earliest match.
	registry []intentPatterns

	timeParser *when.Parser

	punctuation *regexp.Regexp
	whitespace  *regexp.Regexp
	doctorName  *regexp.Regexp
	firstInt    *regexp.Regexp

	// timeTokens is scanned in priority order; the first hit becomes the
	// appointment time token.
	timeTokens []*regexp.Regexp
)

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// setup compiles the pattern registry and the natural-language time parser
// exactly once. Safe to call from any entry point.
func setup() {
	setupOnce.Do(func() {
		registry = []intentPatterns{
			{
				intent: IntentBookAppointment,
				patterns: compile(
					`book.*?appointment.*?for\s+`+name,
					`schedule.*?appointment.*?for\s+`+name,
					`make.*?appointment.*?for\s+`+name,
					`set.*?appointment.*?for\s+`+name,
					`book\s+`+name,
					`schedule\s+`+name,
					`(?:book|schedule|make).*?appointment`,
				),
			},
			{
				intent: IntentQueryPatient,
				patterns: compile(
					`show.*?(?:last\s+visit|history|info|information).*?for\s+`+name,
					`get.*?(?:patient|info|information).*?for\s+`+name,
					`find\s+patient\s+`+name,
					`look\s*up\s+`+name,
					`tell\s+me\s+about\s+`+name,
					`what\s+about\s+`+name,
				),
			},
			{
				intent: IntentViewAppointments,
				patterns: compile(
					`show.*appointments`,
					`list.*appointments`,
					`what.*appointments`,
					`view.*appointments`,
					`upcoming\s+appointments`,
					`appointments.*today`,
					`today.*appointments`,
					`schedule.*today`,
				),
			},
			{
				intent: IntentViewPatients,
				patterns: compile(
					`show.*patients`,
					`list.*patients`,
					`all\s+patients`,
					`view.*patients`,
					`patient\s+list`,
				),
			},
			{
				intent: IntentGreeting,
				patterns: compile(
					`\bhello\b`,
					`\bhi\b`,
					`\bhey\b`,
					`good\s+morning`,
					`good\s+afternoon`,
					`good\s+evening`,
				),
			},
			{
				intent: IntentHelp,
				patterns: compile(
					`\bhelp\b`,
					`what\s+can\s+you\s+do`,
					`\bcommands\b`,
					`\bassistance\b`,
				),
			},
		}

		punctuation = regexp.MustCompile(`[^\w\s@.:,-]`)
		whitespace = regexp.MustCompile(`\s+`)
		doctorName = regexp.MustCompile(`(?:with|doctor|dr\.?)\s+((?:dr\.?\s+)?[a-z]+)`)
		firstInt = regexp.MustCompile(`(\d+)`)

		timeTokens = compile(
			`(\d{1,2}\s*(?:am|pm))`,
			`at\s+(\d{1,2})`,
			`(\d{1,2}:\d{2})`,
			`(tomorrow|today|next\s+\w+)`,
			`(\d{1,2}\s*(?:am|pm))`,
		)

		timeParser = when.New(nil)
		timeParser.Add(en.All...)
		timeParser.Add(common.All...)
	})
}
