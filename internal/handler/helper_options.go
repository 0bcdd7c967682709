package handler

import (
	"net/url"
	"strconv"
)

func intOption(name string, fallback int64, options url.Values) int64 {
	if len(options[name]) == 0 {
		return fallback
	}
	v, err := strconv.ParseInt(options[name][0], 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func boolOption(name string, fallback bool, options url.Values) bool {
	if len(options[name]) == 0 || options[name][0] == "" {
		return fallback
	}
	return options[name][0] == "true"
}

// stringOption returns the first value of name or alias.
func stringOption(name string, alias string, options url.Values) string {
	if len(options[name]) > 0 {
		return options[name][0]
	}
	if len(options[alias]) > 0 {
		return options[alias][0]
	}
	return ""
}
