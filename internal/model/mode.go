package model

import (
	"fmt"
	"strings"
)

// Mode selects which interest-rate rule the backend applies.
type Mode string

const (
	// ModeLocalBody applies the local body rate (0.5% per month).
	ModeLocalBody Mode = "localbody"
	// ModePrivate applies the private entity rate (2% per month).
	ModePrivate Mode = "private"
)

// DefaultMode is the mode used before the user picks one.
const DefaultMode = ModeLocalBody

// ParseMode parses a mode string as sent on the wire.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLocalBody:
		return ModeLocalBody, nil
	case ModePrivate:
		return ModePrivate, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, ModeLocalBody, ModePrivate)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModePrivate {
		return ModeLocalBody
	}
	return ModePrivate
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	if m == ModePrivate {
		return "Private"
	}
	return "Local Body"
}

// RateLabel describes the monthly rate the backend is understood to apply.
func (m Mode) RateLabel() string {
	if m == ModePrivate {
		return "2%"
	}
	return "0.5%"
}

func (m Mode) String() string {
	return string(m)
}
