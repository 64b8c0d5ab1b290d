package fleet

import (
	"regexp"
	"sort"
	"strings"
)

// Unknown is the sentinel returned when a vehicle cannot be resolved.
const Unknown = "—"

var plateRe = regexp.MustCompile(`\(([^)]+)\)`)

// Config holds the static lookup tables used to derive vehicle and team
// information from driver display labels. Tables are fixed for the
// process lifetime once the resolver is built.
type Config struct {
	// VehicleTypes maps a normalized registration plate to its type.
	VehicleTypes map[string]string `json:"vehicle_types"`
	// Teams maps a team name to the lowercase name fragments that
	// assign a driver to it.
	Teams map[string][]string `json:"teams"`
	// DefaultTeam is used when no fragment matches.
	DefaultTeam string `json:"default_team"`
}

// SetDefaults installs the current operational roster when the
// configuration leaves the tables empty.
func (c *Config) SetDefaults() {
	if len(c.VehicleTypes) == 0 {
		c.VehicleTypes = map[string]string{
			"PD1781L":  "Van",
			"YQ766M":   "Lorry",
			"YN9270H":  "Lorry",
			"YR2327D":  "Lorry",
			"PD2340U":  "Van",
			"PD1164T":  "Van",
			"PD2814U":  "Minibus",
			"SMY1362M": "SUV",
		}
	}
	if len(c.Teams) == 0 {
		c.Teams = map[string][]string{
			"Penjuru": {"velu", "raja"},
		}
	}
	if c.DefaultTeam == "" {
		c.DefaultTeam = "Changi"
	}
}

type roster struct {
	team      string
	fragments []string
}

// Resolver derives vehicle type and team affiliation from driver display
// labels. Both lookups are pure and never fail.
type Resolver struct {
	vehicles    map[string]string
	rosters     []roster
	defaultTeam string
}

// NewResolver builds a Resolver from cfg. Plate keys are normalized so
// that lookups are insensitive to case and embedded whitespace. Team
// rosters are ordered by name to keep fragment matching deterministic.
func NewResolver(cfg Config) *Resolver {
	cfg.SetDefaults()
	vehicles := make(map[string]string, len(cfg.VehicleTypes))
	for plate, typ := range cfg.VehicleTypes {
		vehicles[NormalizePlate(plate)] = typ
	}
	names := make([]string, 0, len(cfg.Teams))
	for name := range cfg.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	rosters := make([]roster, 0, len(names))
	for _, name := range names {
		frags := make([]string, 0, len(cfg.Teams[name]))
		for _, f := range cfg.Teams[name] {
			frags = append(frags, strings.ToLower(f))
		}
		rosters = append(rosters, roster{team: name, fragments: frags})
	}
	return &Resolver{vehicles: vehicles, rosters: rosters, defaultTeam: cfg.DefaultTeam}
}

// Vehicle resolves the vehicle type from a label following the
// "Name (PLATE)" convention. Labels without a parenthesized plate, and
// plates absent from the table, resolve to Unknown.
func (r *Resolver) Vehicle(label string) string {
	m := plateRe.FindStringSubmatch(label)
	if m == nil {
		return Unknown
	}
	if typ, ok := r.vehicles[NormalizePlate(m[1])]; ok {
		return typ
	}
	return Unknown
}

// Team resolves the team affiliation by case-insensitive substring match
// against the configured rosters. First matching team wins; no match
// falls to the default team.
func (r *Resolver) Team(label string) string {
	lower := strings.ToLower(label)
	for _, ros := range r.rosters {
		for _, frag := range ros.fragments {
			if strings.Contains(lower, frag) {
				return ros.team
			}
		}
	}
	return r.defaultTeam
}

// NormalizePlate uppercases a registration plate and strips all
// whitespace so that sheet formatting quirks do not break lookups.
func NormalizePlate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
