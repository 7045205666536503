package config

import (
	"errors"
	"fmt"
)

// ErrInvalidSetting is matched by every *SettingError.
var ErrInvalidSetting = errors.New("invalid setting")

// SyntaxError reports malformed TOML. Line and Column are 1-based and
// zero when the decoder could not locate the problem.
type SyntaxError struct {
	Source       string
	Line, Column int
	Err          error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s:%d:%d: %v", e.Source, e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Problem classifies what is wrong with a setting.
type Problem uint8

const (
	// UnknownKey is a key lineflow does not read, usually a typo.
	UnknownKey Problem = iota + 1
	// Unparsable is an environment override that is not a number or boolean.
	Unparsable
	OutOfRange
	NotAChoice
	BadColor
)

var problemNames = [...]string{
	UnknownKey: "unknown key",
	Unparsable: "cannot parse",
	OutOfRange: "out of range",
	NotAChoice: "not one of the choices",
	BadColor:   "not a hex color",
}

func (p Problem) String() string {
	if int(p) < len(problemNames) && problemNames[p] != "" {
		return problemNames[p]
	}
	return fmt.Sprintf("Problem(%d)", uint8(p))
}

// SettingError reports one setting that failed to load or validate.
// Key is the dotted TOML key, such as "layout.tab_width".
type SettingError struct {
	Key     string
	Problem Problem
	Value   any
	Hint    string
}

func (e *SettingError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Key, e.Problem)
	if e.Value != nil {
		msg += fmt.Sprintf(" %v", e.Value)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Is matches ErrInvalidSetting.
func (e *SettingError) Is(target error) bool { return target == ErrInvalidSetting }
