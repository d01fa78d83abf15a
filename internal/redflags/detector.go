package redflags

import "slices"

// Detector evaluates text against an immutable rule table.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	rules []Rule
}

// New creates a Detector over rules, falling back to DefaultRules when none are given.
func New(rules ...Rule) *Detector {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Detector{rules: slices.Clone(rules)}
}

// Detect returns the keys of every rule that fires for text, in rule table
// order. Duplicate keys are reported once. Returns an empty, non-nil slice
// when nothing matches.
func (d *Detector) Detect(text string) []string {
	matched := []string{}
	for _, r := range d.rules {
		if r.Match(text) && !slices.Contains(matched, r.Key) {
			matched = append(matched, r.Key)
		}
	}
	return matched
}

// Keys returns the rule keys in table order.
func (d *Detector) Keys() []string {
	keys := make([]string, 0, len(d.rules))
	for _, r := range d.rules {
		if !slices.Contains(keys, r.Key) {
			keys = append(keys, r.Key)
		}
	}
	return keys
}
