// Package info parses the delimited key/value statistics text returned by
// cluster nodes over the info protocol. Nodes report ad-hoc
// semicolon/colon-delimited strings; the parsers here turn those into
// structured records and never fail on malformed input; offending
// fragments are dropped or merged instead.
package info

import (
	"sort"
	"strconv"
	"strings"
)

// Record is one parsed info response: field name to field value.
// Keys are unique within a record; a fresh Record is built on every parse.
type Record map[string]string

// ToList splits an info response on sep. Exists mostly so callers never
// deal with the empty-input case.
func ToList(text, sep string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, sep)
}

// ToMap converts a delimited info string into a Record.
//
// The string is split on fieldSep, then each field is split on the first
// pairSep into key and value. With strict set, fields lacking pairSep are
// discarded. Without strict, such fields are rejoined (with fieldSep) onto
// the previous valid field: some responses legitimately contain fieldSep
// inside a value, e.g.
//
//	dc-name=REMOTE_DC_1:nodes=2000:10:3:int-ext-ipmap=172.68.17.123
//
// parsed with fieldSep ":" yields nodes = "2000:10:3".
//
// When several fields share a key their values are sorted and joined with
// "," (duplicates are not deduplicated; "a=1;a=1" yields "1,1"). That
// matches the wire behavior consumers already depend on, quirks included.
func ToMap(text, fieldSep, pairSep string, strict bool) Record {
	rec := make(Record)
	if text == "" {
		return rec
	}

	raw := strings.Split(text, fieldSep)
	fields := raw
	if !strict {
		fields = mergeOrphanFields(raw, fieldSep, pairSep)
	}

	values := make(map[string][]string)
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, pairSep)
		if !ok {
			// Strict mode: no pair delimiter, drop the fragment.
			continue
		}
		if _, seen := values[k]; !seen {
			order = append(order, k)
		}
		values[k] = append(values[k], v)
	}

	for _, k := range order {
		vs := values[k]
		if len(vs) == 1 {
			rec[k] = vs[0]
			continue
		}
		sort.Strings(vs)
		rec[k] = strings.Join(vs, ",")
	}
	return rec
}

// mergeOrphanFields appends fields lacking pairSep onto the previous valid
// field, restoring the fieldSep that the outer split consumed. Orphans
// before the first valid field are dropped.
func mergeOrphanFields(raw []string, fieldSep, pairSep string) []string {
	merged := make([]string, 0, len(raw))
	for _, f := range raw {
		if strings.Contains(f, pairSep) {
			merged = append(merged, f)
			continue
		}
		if len(merged) == 0 {
			continue
		}
		merged[len(merged)-1] += fieldSep + f
	}
	return merged
}

// ToSections parses a multi-section info string, e.g.
//
//	ns=test:objects=5;ns=bar:objects=2
//
// Each section (split on sectionSep) is parsed as a single-level record
// with fieldSep between fields and "=" between key and value, then re-keyed
// by the value of the first name in keyNames present in the section.
// Sections missing every name in keyNames are dropped.
func ToSections(text string, keyNames []string, sectionSep, fieldSep string, strict bool) map[string]Record {
	out := make(map[string]Record)
	if text == "" || len(keyNames) == 0 {
		return out
	}

	for _, section := range strings.Split(text, sectionSep) {
		rec := ToMap(section, fieldSep, "=", strict)
		if len(rec) == 0 {
			continue
		}
		for _, name := range keyNames {
			if key, ok := rec[name]; ok {
				out[key] = rec
				break
			}
		}
	}
	return out
}

// ParseBracketedList splits text on sep, treating any span between a
// character in open and one in close as atomic: separators inside brackets
// do not split. A single pair of brackets enclosing the whole string is
// stripped first. Items are whitespace-trimmed.
func ParseBracketedList(text, sep, open, close string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.ContainsRune(open, rune(text[0])) && strings.ContainsRune(close, rune(text[len(text)-1])) {
		text = text[1 : len(text)-1]
	}
	if text == "" {
		return nil
	}

	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case strings.ContainsRune(sep, r) && depth == 0:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		case strings.ContainsRune(open, r):
			cur.WriteRune(r)
			depth++
		case strings.ContainsRune(close, r):
			cur.WriteRune(r)
			if depth > 0 {
				depth--
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

// FindDNS returns the hostname part of the first endpoint that looks like a
// DNS name (not bracketed IPv6, not a raw IP). Empty string when none match.
func FindDNS(endpoints []string) string {
	for _, e := range endpoints {
		if e == "" {
			continue
		}
		if e[0] == '[' || (e[0] >= '0' && e[0] <= '9') {
			continue
		}
		host, _, _ := strings.Cut(e, ":")
		return strings.TrimSpace(host)
	}
	return ""
}

// RemoveSuffix trims whitespace and removes suffix from the end of s, if
// present.
func RemoveSuffix(s, suffix string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, suffix)
}

// Lookup returns the value of the first key present in rec, or def.
func Lookup(rec Record, def string, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v
		}
	}
	return def
}

// LookupInt is Lookup with integer coercion. Malformed values fall back to
// def rather than failing.
func LookupInt(rec Record, def int64, keys ...string) int64 {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
			return def
		}
	}
	return def
}

// LookupFloat is Lookup with float coercion. Malformed values fall back to
// def rather than failing.
func LookupFloat(rec Record, def float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			return def
		}
	}
	return def
}
