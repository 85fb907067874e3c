// Package recipients parses the configured report recipient list.
package recipients

import "strings"

// Parse splits a comma or semicolon delimited address list. Whitespace
// around each address is trimmed and empty entries are dropped.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		addr := strings.TrimSpace(f)
		if addr == "" {
			continue
		}
		out = append(out, addr)
	}
	return out
}
