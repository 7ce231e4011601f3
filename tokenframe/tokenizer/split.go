package tokenizer

import (
	"regexp"
	"strings"
)

// splitMax splits s around any of the separator bytes in seps. Runs of
// adjacent separators count as one and produce no empty fields. When max is
// positive, at most max fields are returned and the last one holds the rest
// of the input, separators included.
func splitMax(s, seps string, max int) []string {
	var out []string
	start, i := 0, 0
	match := false
	for i < len(s) {
		if strings.IndexByte(seps, s[i]) >= 0 {
			if match {
				if len(out)+1 == max {
					i = len(s)
				}
				out = append(out, s[start:i])
				match = false
			}
			i++
			start = i
			continue
		}
		match = true
		i++
	}
	if match {
		out = append(out, s[start:i])
	}
	return out
}

// regexSplit splits s around matches of re. A zero-width match at the very
// start yields no leading empty field, trailing empty fields are dropped,
// and an input without any match comes back as a single field.
func regexSplit(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return []string{s}
	}

	out := make([]string, 0, len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[1] == 0 {
			continue
		}
		out = append(out, s[last:m[0]])
		last = m[1]
	}
	out = append(out, s[last:])

	n := len(out)
	for n > 0 && out[n-1] == "" {
		n--
	}
	return out[:n]
}

// parsePayload splits "<target>[?k=v[&k=v...]]". Keys without '=' map to
// the empty string. Values are taken verbatim, without URL decoding.
func parsePayload(payload string) (string, map[string]string) {
	params := make(map[string]string)
	values := splitMax(payload, "?", 2)
	if len(values) != 2 {
		return payload, params
	}

	fields := strings.Split(values[1], "&")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	for _, field := range fields {
		pair := splitMax(field, "=", 2)
		if len(pair) == 2 {
			params[pair[0]] = pair[1]
		} else {
			params[field] = ""
		}
	}
	return values[0], params
}
