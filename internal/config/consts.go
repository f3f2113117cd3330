package config

import (
	"regexp"
)

// placeholderRE matches %(name)% tokens.
var placeholderRE = regexp.MustCompile(`%\((.+?)\)%`)

// ReplaceNames substitutes every %(name)% token in input with consts[name].
// Tokens without a matching const are left as they are.
func ReplaceNames(input string, consts map[string]string) string {
	if len(consts) == 0 {
		return input
	}

	return placeholderRE.ReplaceAllStringFunc(input, func(token string) string {
		name := placeholderRE.FindStringSubmatch(token)[1]
		if v, ok := consts[name]; ok {
			return v
		}
		return token
	})
}
