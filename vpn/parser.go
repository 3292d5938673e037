// Package vpn provides the daemon command gateway and state engine.
// This file contains the parsers for the daemon's two text output shapes.
package vpn

import "strings"

// leadingNoise is stripped from the left of every parsed line. The daemon
// prefixes its output with a spinner drawn from these characters.
const leadingNoise = " \r\n-"

// Pair is one key/value entry in daemon reporting order.
type Pair struct {
	Key   string
	Value string
}

// ParseKeyValue parses "key: value" lines. Lines without a colon, or with
// nothing before it, are dropped. Values are kept verbatim apart from
// surrounding whitespace.
func ParseKeyValue(text string) []Pair {
	pairs := make([]Pair, 0)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(strings.TrimLeft(line, leadingNoise), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: key, Value: strings.TrimSpace(value)})
	}
	return pairs
}

// ParseList parses a comma separated list such as the output of
// "nordvpn countries". Underscores become spaces, the inverse of Slug.
// Newlines and tabs also separate entries since newer daemon releases print
// columns instead of commas.
func ParseList(text string) []string {
	text = strings.ReplaceAll(strings.TrimLeft(text, leadingNoise), "_", " ")
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\t'
	})

	items := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			items = append(items, f)
		}
	}
	return items
}

// Slug turns a display name into the token the daemon expects.
func Slug(target string) string {
	return strings.ReplaceAll(target, " ", "_")
}

// Lookup returns the value of the first entry with the given key.
func Lookup(pairs []Pair, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// IsConnected reports whether any status-bearing entry says "Connected".
func IsConnected(status []Pair) bool {
	for _, p := range status {
		if strings.Contains(p.Key, "Status") && p.Value == "Connected" {
			return true
		}
	}
	return false
}
