package core

import (
	"strings"
	"unicode"
)

// Borrowed from https://github.com/jlelse/GoBlog/blob/master/utils.go
func slugify(str string) string {
	return strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			// Is lower case ASCII or number, return unmodified
			return c
		} else if c >= 'A' && c <= 'Z' {
			// Is upper case ASCII, make lower case
			return c + 'a' - 'A'
		} else if c == ' ' || c == '-' || c == '_' {
			// Space, replace with '-'
			return '-'
		} else {
			// Drop character
			return -1
		}
	}, str)
}

// Capitalize upper cases the first letter, leaving the rest untouched.
func Capitalize(str string) string {
	runes := []rune(str)
	if len(runes) == 0 {
		return str
	}

	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// dateFormat mirrors what the mobile app renders, e.g. "Thu, May 01, 2014 06:30".
const dateFormat = "Mon, Jan 02, 2006 15:04"
