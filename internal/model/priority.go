package model

import (
	"fmt"
	"strings"
)

// Priority of a todo. The zero value means no priority.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// SelectNone is the select option standing for "no priority"; NullWire is
// what is sent in its place.
const (
	SelectNone = "None"
	NullWire   = "null"
)

// PriorityOptions lists the select options in display order.
var PriorityOptions = []string{SelectNone, string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}

// PriorityWireValue translates a select option to the value sent to the server.
func PriorityWireValue(selection string) string {
	if selection == SelectNone {
		return NullWire
	}
	return selection
}

// ParsePriority accepts a wire value: empty or "null" for none, or one of
// LOW, MEDIUM, HIGH.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", NullWire:
		return PriorityNone, nil
	case string(PriorityLow), string(PriorityMedium), string(PriorityHigh):
		return Priority(s), nil
	}
	return PriorityNone, fmt.Errorf("invalid priority %q: expected one of LOW, MEDIUM, HIGH", s)
}

// SelectionFor returns the select option for a displayed priority label.
func SelectionFor(label string) string {
	switch strings.ToUpper(label) {
	case string(PriorityLow), string(PriorityMedium), string(PriorityHigh):
		return strings.ToUpper(label)
	}
	return SelectNone
}
