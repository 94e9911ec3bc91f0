package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Widget ranges of the dashboard.
const (
	MinInjuredThreshold = 0
	MaxInjuredThreshold = 19
	MinHour             = 0
	MaxHour             = 23

	DefaultHour = 1
)

// State is the set of widget values one render is computed for.
type State struct {
	Injured  int      `json:"injured"`
	Hour     int      `json:"hour"`
	Category Category `json:"category"`
	ShowRaw  bool     `json:"raw"`
}

// DefaultState mirrors the dashboard's initial widget positions.
func DefaultState() State {
	return State{
		Injured:  MinInjuredThreshold,
		Hour:     DefaultHour,
		Category: Pedestrians,
	}
}

// Validate reports the first out-of-range widget value.
func (s State) Validate() error {
	if s.Injured < MinInjuredThreshold || s.Injured > MaxInjuredThreshold {
		return fmt.Errorf("%w: injured must be in [%d,%d], got %d", ErrInvalidState, MinInjuredThreshold, MaxInjuredThreshold, s.Injured)
	}
	if s.Hour < MinHour || s.Hour > MaxHour {
		return fmt.Errorf("%w: hour must be in [%d,%d], got %d", ErrInvalidState, MinHour, MaxHour, s.Hour)
	}
	if s.Category.Column() == "" {
		return fmt.Errorf("%w: %w: %q", ErrInvalidState, ErrUnknownCategory, s.Category)
	}
	return nil
}

// ParseState builds a State from string widget values, falling back to the
// defaults for empty values. The result is validated.
func ParseState(injured, hour, category, raw string) (State, error) {
	s := DefaultState()

	if v := strings.TrimSpace(injured); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return State{}, fmt.Errorf("%w: injured: %w", ErrInvalidState, err)
		}
		s.Injured = n
	}
	if v := strings.TrimSpace(hour); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return State{}, fmt.Errorf("%w: hour: %w", ErrInvalidState, err)
		}
		s.Hour = n
	}
	if v := strings.TrimSpace(category); v != "" {
		c, err := ParseCategory(v)
		if err != nil {
			return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		s.Category = c
	}
	if v := strings.TrimSpace(raw); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return State{}, fmt.Errorf("%w: raw: %w", ErrInvalidState, err)
		}
		s.ShowRaw = b
	}

	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// HourLabel formats the hour window, e.g. "23:00 and 0:00".
func (s State) HourLabel() string {
	return fmt.Sprintf("%d:00 and %d:00", s.Hour, (s.Hour+1)%24)
}
