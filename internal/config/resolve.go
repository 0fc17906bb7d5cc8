package config

import "strings"

// Resolve returns the last non-nil value, or def.
func Resolve[T any](def T, values ...*T) T {
	result := def
	for _, v := range values {
		if v != nil {
			result = *v
		}
	}
	return result
}

func ResolveString(def string, values ...*string) string { return Resolve(def, values...) }

func ResolveInt(def int, values ...*int) int { return Resolve(def, values...) }

func ResolveBool(def bool, values ...*bool) bool { return Resolve(def, values...) }

// ResolveStrings copies the winning list; an explicitly empty layer clears it.
func ResolveStrings(def []string, values ...*[]string) []string {
	result := cloneStrings(def)
	for _, v := range values {
		if v == nil {
			continue
		}
		if len(*v) == 0 {
			result = []string{}
			continue
		}
		result = cloneStrings(*v)
	}
	return result
}

func ResolveAndTrim(def string, values ...*string) string {
	return strings.TrimSpace(ResolveString(def, values...))
}
