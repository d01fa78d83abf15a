// Package redflags detects emergency warning signs in free-text symptom
// descriptions using a fixed table of case-insensitive, word-boundary-aware
// patterns. Detection is the sole authority for a RED triage tier.
package redflags

import "regexp"

// Rule pairs a short red-flag label with the pattern that detects it.
type Rule struct {
	Key     string
	Pattern *regexp.Regexp
}

// Match reports whether the rule fires for text.
func (r Rule) Match(text string) bool {
	return r.Pattern.MatchString(text)
}

func rule(key, expr string) Rule {
	return Rule{
		Key:     key,
		Pattern: regexp.MustCompile(`(?i)\b(?:` + expr + `)\b`),
	}
}

// apostrophe accepts both the ASCII and the typographic form.
const apostrophe = `['’]`

var defaultRules = []Rule{
	rule("chest pain", `chest pain|chest pressure|tightness in (?:my )?chest`),
	rule("trouble breathing", `shortness of breath|trouble breathing|can`+apostrophe+`t breathe|cannot breathe|difficulty breathing`),
	rule("loss of consciousness", `fainted|fainting|unconscious|passed out|loss of consciousness`),
	rule("seizure", `seizure|convulsion`),
	rule("stroke signs", `face droop|slurred speech|one[- ]sided weakness|weakness on one side|stroke`),
	rule("uncontrolled bleeding", `heavy bleeding|bleeding won`+apostrophe+`?t stop|cannot stop bleeding`),
	rule("severe allergic reaction", `anaphylaxis|throat closing|swelling of (?:my )?(?:face|lips|tongue)|severe allergic reaction`),
	rule("severe head injury", `severe head injury|hit my head and (?:i am|i`+apostrophe+`m) confused|head trauma`),
	rule("severe confusion", `confused|disoriented|not making sense`),
	rule("suicidal intent", `suicidal|kill myself|end my life`),
}

// DefaultRules returns a copy of the built-in red-flag rule table.
func DefaultRules() []Rule {
	rules := make([]Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
