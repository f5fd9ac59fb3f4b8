package model

import (
	"errors"
	"unicode/utf8"
)

// MaxNameLength is the longest task name accepted, in characters.
const MaxNameLength = 100

// ErrNameTooLong is returned for names longer than MaxNameLength.
var ErrNameTooLong = errors.New("task name cannot exceed 100 characters")

// NameLengthOK reports whether name fits in MaxNameLength characters.
func NameLengthOK(name string) bool {
	return utf8.RuneCountInString(name) <= MaxNameLength
}

// ValidateName checks a task name against MaxNameLength.
func ValidateName(name string) error {
	if !NameLengthOK(name) {
		return ErrNameTooLong
	}
	return nil
}

// TruncateName cuts name down to MaxNameLength characters and reports
// whether anything was removed.
func TruncateName(name string) (string, bool) {
	if NameLengthOK(name) {
		return name, false
	}
	runes := []rune(name)
	return string(runes[:MaxNameLength]), true
}
