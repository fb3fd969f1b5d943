package config

import (
	"strings"
	"unicode"
)

// CleanFileName turns record kind (XML element name, possibly with namespace
// prefix) into a name usable as file name on any platform.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		switch {
		case sym == ':':
			return '_'
		case unicode.IsControl(sym), strings.ContainsRune(`<>"/\|?*`, sym):
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
