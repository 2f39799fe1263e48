package checkers

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tabletop/legality"
)

var ErrInvalidVariant = errors.New("invalid variant")

// Priority is the metric a capture sequence is ranked by.
type Priority int

const (
	// PriorityCaptures counts captured pieces.
	PriorityCaptures Priority = iota
	// PriorityCapturesAndKings counts captured pieces plus captured kings.
	PriorityCapturesAndKings
)

func (p Priority) String() string {
	switch p {
	case PriorityCaptures:
		return "captures"
	case PriorityCapturesAndKings:
		return "captures+kings"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func parsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "captures":
		return PriorityCaptures, nil
	case "captures+kings":
		return PriorityCapturesAndKings, nil
	}
	return PriorityCaptures, fmt.Errorf("unknown capture priority %q", s)
}

// Variant is the YAML-configurable rule set of a game.
type Variant struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
	// Impact is one of none, illegal or penalty.
	Impact string `yaml:"impact"`
	// Priority is one of captures or captures+kings.
	Priority string `yaml:"priority"`
	// DrawPlies ends the game drawn after that many turns without a
	// capture. Zero disables the rule.
	DrawPlies int `yaml:"draw_plies"`
}

// DefaultVariant is English draughts with the longest-capture rule.
func DefaultVariant() Variant {
	return Variant{
		Name:      "english",
		Width:     8,
		Impact:    "illegal",
		Priority:  "captures",
		DrawPlies: 80,
	}
}

// LoadVariant reads a variant from a YAML file. Missing fields take their
// default values.
func LoadVariant(path string) (Variant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Variant{}, err
	}
	return ParseVariant(raw)
}

func ParseVariant(raw []byte) (Variant, error) {
	v := DefaultVariant()
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return Variant{}, fmt.Errorf("variant yaml: %w", err)
	}
	if _, err := v.rules(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

// rules is the validated form of a Variant held by every state.
type rules struct {
	name      string
	width     int
	impact    legality.Impact
	priority  Priority
	drawPlies int
}

func (v Variant) rules() (rules, error) {
	if v.Width < 4 || v.Width > 16 || v.Width%2 != 0 {
		return rules{}, fmt.Errorf("%w: board width %d must be even and between 4 and 16", ErrInvalidVariant, v.Width)
	}
	if v.DrawPlies < 0 {
		return rules{}, fmt.Errorf("%w: negative draw plies %d", ErrInvalidVariant, v.DrawPlies)
	}
	impact, err := legality.ParseImpact(v.Impact)
	if err != nil {
		return rules{}, fmt.Errorf("%w: %v", ErrInvalidVariant, err)
	}
	priority, err := parsePriority(v.Priority)
	if err != nil {
		return rules{}, fmt.Errorf("%w: %v", ErrInvalidVariant, err)
	}
	return rules{
		name:      v.Name,
		width:     v.Width,
		impact:    impact,
		priority:  priority,
		drawPlies: v.DrawPlies,
	}, nil
}

func (r rules) compare(o rules) int {
	switch {
	case r.name != o.name:
		return strings.Compare(r.name, o.name)
	case r.width != o.width:
		return r.width - o.width
	case r.impact != o.impact:
		return int(r.impact) - int(o.impact)
	case r.priority != o.priority:
		return int(r.priority) - int(o.priority)
	}
	return r.drawPlies - o.drawPlies
}
