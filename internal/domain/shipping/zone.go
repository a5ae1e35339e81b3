package shipping

import (
	"strconv"
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"gorm.io/datatypes"
)

// Wildcard matches any value at a zone level
const Wildcard = "*"

// Specificity weights per constrained zone level
const (
	scoreCountry = 1
	scoreState   = 2
	scoreCity    = 4
	scorePostal  = 8
)

// Zone is a geographic rule selecting which shipping methods apply.
// An empty list (or one containing "*") leaves that level unconstrained.
type Zone struct {
	shared.BaseAggregateRoot
	Name        string                      `gorm:"type:varchar(100);not null"`
	Countries   datatypes.JSONSlice[string] `gorm:"type:json"`
	States      datatypes.JSONSlice[string] `gorm:"type:json"`
	Cities      datatypes.JSONSlice[string] `gorm:"type:json"`
	PostalCodes datatypes.JSONSlice[string] `gorm:"type:json"`
	Priority    int                         `gorm:"not null;default:0"`
	IsActive    bool                        `gorm:"not null"`
	Methods     []Method                    `gorm:"foreignKey:ZoneID;references:ID"`
}

// TableName returns the table name for GORM
func (Zone) TableName() string {
	return "shipping_zones"
}

// ZoneRules are the matching lists of a zone
type ZoneRules struct {
	Countries   []string
	States      []string
	Cities      []string
	PostalCodes []string
}

// NewZone creates an active zone
func NewZone(name string, rules ZoneRules, priority int) (*Zone, error) {
	z := &Zone{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
	}
	if err := z.Update(name, rules, priority); err != nil {
		return nil, err
	}
	z.Version = 1
	return z, nil
}

// Update replaces the zone's name, rules and priority
func (z *Zone) Update(name string, rules ZoneRules, priority int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ZONE_NAME", "Zone name cannot be empty")
	}
	countries := cleanList(rules.Countries, strings.ToUpper)
	for _, c := range countries {
		if c != Wildcard && len(c) != 2 {
			return shared.NewDomainError("INVALID_COUNTRY", "Countries must be 2-letter ISO codes: "+c)
		}
	}
	postal := cleanList(rules.PostalCodes, normalizePostal)
	for _, p := range postal {
		if err := validatePostalPattern(p); err != nil {
			return err
		}
	}
	z.Name = name
	z.Countries = countries
	z.States = cleanList(rules.States, strings.TrimSpace)
	z.Cities = cleanList(rules.Cities, strings.TrimSpace)
	z.PostalCodes = postal
	z.Priority = priority
	z.IncrementVersion()
	return nil
}

// SetActive toggles the zone
func (z *Zone) SetActive(active bool) {
	z.IsActive = active
	z.IncrementVersion()
}

// Match reports whether dest falls inside the zone and how specific the
// match is. Each constrained level that matched adds its weight.
func (z *Zone) Match(dest valueobject.Address) (int, bool) {
	score := 0

	if !isWildcard(z.Countries) {
		if !containsFunc(z.Countries, func(c string) bool { return strings.EqualFold(c, dest.Country) }) {
			return 0, false
		}
		score += scoreCountry
	}
	if !isWildcard(z.States) {
		state := shared.FoldText(dest.State)
		if state == "" || !containsFunc(z.States, func(s string) bool { return shared.FoldText(s) == state }) {
			return 0, false
		}
		score += scoreState
	}
	if !isWildcard(z.Cities) {
		city := shared.FoldText(dest.City)
		if city == "" || !containsFunc(z.Cities, func(c string) bool { return shared.FoldText(c) == city }) {
			return 0, false
		}
		score += scoreCity
	}
	if !isWildcard(z.PostalCodes) {
		postal := normalizePostal(dest.PostalCode)
		if postal == "" || !containsFunc(z.PostalCodes, func(p string) bool { return MatchPostalCode(p, postal) }) {
			return 0, false
		}
		score += scorePostal
	}
	return score, true
}

// MatchPostalCode matches a postal code against a pattern: an exact code
// ("10001"), a prefix ending in "*" ("100*") or an inclusive numeric
// range with equal-length bounds ("10000-10999").
func MatchPostalCode(pattern, postal string) bool {
	pattern = normalizePostal(pattern)
	postal = normalizePostal(postal)
	if pattern == Wildcard {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, Wildcard); ok {
		return strings.HasPrefix(postal, prefix)
	}
	if lo, hi, ok := parsePostalRange(pattern); ok {
		// ZIP+4 style codes compare on their leading segment
		head, _, _ := strings.Cut(postal, "-")
		n, err := strconv.ParseInt(head, 10, 64)
		if err != nil {
			return false
		}
		return n >= lo && n <= hi
	}
	return pattern == postal
}

func parsePostalRange(pattern string) (int64, int64, bool) {
	left, right, found := strings.Cut(pattern, "-")
	// equal-length numeric sides; "01310-100" is an exact code, not a range
	if !found || len(left) != len(right) {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseInt(left, 10, 64)
	hi, err2 := strconv.ParseInt(right, 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func validatePostalPattern(p string) error {
	if p == Wildcard {
		return nil
	}
	if strings.Count(p, Wildcard) > 1 || (strings.Contains(p, Wildcard) && !strings.HasSuffix(p, Wildcard)) {
		return shared.NewDomainError("INVALID_POSTAL_PATTERN", "Wildcard is only allowed at the end of a postal pattern: "+p)
	}
	if lo, hi, ok := parsePostalRange(p); ok && lo > hi {
		return shared.NewDomainError("INVALID_POSTAL_PATTERN", "Postal range start must not exceed its end: "+p)
	}
	return nil
}

func normalizePostal(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func isWildcard(list []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if v == Wildcard {
			return true
		}
	}
	return false
}

func containsFunc(list []string, fn func(string) bool) bool {
	for _, v := range list {
		if fn(v) {
			return true
		}
	}
	return false
}

func cleanList(in []string, norm func(string) string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = norm(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
