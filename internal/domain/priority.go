package domain

import "strings"

// PriorityRule matches a source label when all of its substrings appear in the
// upper-cased label. Rules are evaluated in order; the first match wins.
type PriorityRule struct {
	Name     string   `json:"name"`
	Contains []string `json:"contains"`
	Priority int      `json:"priority"`
}

// PriorityPolicy is the ordered trust table mapping source labels to priority
// tiers. It is immutable policy data: construct once, share freely.
type PriorityPolicy struct {
	Rules   []PriorityRule `json:"rules"`
	Default int            `json:"default"`
}

// DefaultPriorityPolicy returns the production trust table. The order is
// deliberate: a label like "NPS Recreation.gov API" must resolve to the NPS
// tier, not whichever rule happens to match last. Changing this table is a
// reviewed act, not runtime configuration.
func DefaultPriorityPolicy() PriorityPolicy {
	return PriorityPolicy{
		Rules: []PriorityRule{
			{Name: "nps_api", Contains: []string{"NPS"}, Priority: 100},
			{Name: "recreation_gov", Contains: []string{"RECREATION.GOV"}, Priority: 95},
			{Name: "state_api", Contains: []string{"STATE", "API"}, Priority: 90},
			{Name: "manual_entry", Contains: []string{"MANUAL"}, Priority: 80},
			{Name: "email_submission", Contains: []string{"EMAIL"}, Priority: 75},
			{Name: "gov_site", Contains: []string{".GOV"}, Priority: 60},
		},
		Default: 40, // generic web-scrape tier
	}
}

// Resolve maps a free-text source label to its trust priority. Matching is
// case-insensitive substring matching, top to bottom, first match wins. Blank
// labels resolve to the default tier.
func (p PriorityPolicy) Resolve(label string) int {
	upper := strings.ToUpper(strings.TrimSpace(label))
	if upper == "" {
		return p.Default
	}
	for _, rule := range p.Rules {
		if matchesAll(upper, rule.Contains) {
			return rule.Priority
		}
	}
	return p.Default
}

func matchesAll(label string, substrings []string) bool {
	for _, sub := range substrings {
		if !strings.Contains(label, sub) {
			return false
		}
	}
	return len(substrings) > 0
}

// ResolvePriority resolves a source label against the default trust table.
func ResolvePriority(label string) int {
	return DefaultPriorityPolicy().Resolve(label)
}
