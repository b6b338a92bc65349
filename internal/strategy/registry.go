package strategy

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"swinglab/internal/analyzer"
	"swinglab/pkg/model"
)

// DailyPredicate reports whether a daily row matches a rule
type DailyPredicate func(r *analyzer.DailyRow) bool

// WeeklyPredicate reports whether a week matches a rule under the given options
type WeeklyPredicate func(w *analyzer.WeeklyRow, opts Options) bool

// Rule is one entry of the signal catalogue
type Rule struct {
	ID          int
	Name        string
	Polarity    model.Polarity
	Timeframe   model.Timeframe
	Description string

	daily  DailyPredicate
	weekly WeeklyPredicate
}

// MatchDaily evaluates the rule against a daily row. Weekly rules never match.
func (r Rule) MatchDaily(row *analyzer.DailyRow) bool {
	return r.daily != nil && r.daily(row)
}

// MatchWeekly evaluates the rule against a week. Daily rules never match.
func (r Rule) MatchWeekly(w *analyzer.WeeklyRow, opts Options) bool {
	return r.weekly != nil && r.weekly(w, opts)
}

// registry 규칙 레지스트리 (소문자 이름 -> 규칙)
var (
	registry     = make(map[string]Rule)
	registryLock sync.RWMutex
)

// Register adds a rule to the catalogue.
// Exactly one of the predicates must be set and IDs must be unique.
func Register(r Rule, daily DailyPredicate, weekly WeeklyPredicate) {
	if (daily == nil) == (weekly == nil) {
		panic(fmt.Sprintf("rule %q: exactly one of daily or weekly predicate is required", r.Name))
	}
	r.daily, r.weekly = daily, weekly
	if daily != nil {
		r.Timeframe = model.Daily
	} else {
		r.Timeframe = model.Weekly
	}

	registryLock.Lock()
	defer registryLock.Unlock()
	for _, existing := range registry {
		if existing.ID == r.ID {
			panic(fmt.Sprintf("rule %q: id %d already used by %q", r.Name, r.ID, existing.Name))
		}
	}
	registry[strings.ToLower(r.Name)] = r
}

// Lookup finds a rule by name, ignoring case
func Lookup(name string) (Rule, error) {
	registryLock.RLock()
	r, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	registryLock.RUnlock()

	if !ok {
		return Rule{}, fmt.Errorf("unknown signal: %s (available: %v)", name, Names())
	}
	return r, nil
}

// Catalog returns every registered rule ordered by ID.
// The order is the precedence used when several rules match the same row.
func Catalog() []Rule {
	registryLock.RLock()
	rules := make([]Rule, 0, len(registry))
	for _, r := range registry {
		rules = append(rules, r)
	}
	registryLock.RUnlock()

	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// Names lists rule names in catalogue order
func Names() []string {
	rules := Catalog()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func rulesFor(tf model.Timeframe) []Rule {
	var out []Rule
	for _, r := range Catalog() {
		if r.Timeframe == tf {
			out = append(out, r)
		}
	}
	return out
}
