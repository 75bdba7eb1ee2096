package schema

import (
	"fmt"
	"time"
)

var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decoder reads loosely typed frontmatter or document values. Type
// mismatches are collected instead of stopping at the first one.
type decoder struct {
	raw    map[string]any
	prefix string
	errs   []FieldError
}

func newDecoder(raw map[string]any, prefix string) *decoder {
	return &decoder{raw: raw, prefix: prefix}
}

func (d *decoder) fail(name, reason string) {
	d.errs = append(d.errs, FieldError{Field: d.prefix + name, Reason: reason})
}

// value returns the first present key among name and its aliases.
func (d *decoder) value(name string, aliases ...string) (any, bool) {
	if v, ok := d.raw[name]; ok && v != nil {
		return v, true
	}
	for _, a := range aliases {
		if v, ok := d.raw[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (d *decoder) str(name string, aliases ...string) string {
	if s := d.optStr(name, aliases...); s != nil {
		return *s
	}
	return ""
}

func (d *decoder) optStr(name string, aliases ...string) *string {
	v, ok := d.value(name, aliases...)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.fail(name, "must be a string")
		return nil
	}
	return &s
}

func (d *decoder) boolean(name string, aliases ...string) bool {
	v, ok := d.value(name, aliases...)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(name, "must be a boolean")
		return false
	}
	return b
}

func (d *decoder) optTime(name string, aliases ...string) *time.Time {
	v, ok := d.value(name, aliases...)
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case time.Time:
		return &t
	case string:
		for _, layout := range timeFormats {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
		d.fail(name, fmt.Sprintf("must be a timestamp (RFC3339 or YYYY-MM-DD), got %q", t))
		return nil
	case int:
		ts := time.UnixMilli(int64(t)).UTC()
		return &ts
	case int64:
		ts := time.UnixMilli(t).UTC()
		return &ts
	case float64:
		ts := time.UnixMilli(int64(t)).UTC()
		return &ts
	}

	d.fail(name, "must be a timestamp")
	return nil
}

func (d *decoder) strList(name string, aliases ...string) []string {
	v, ok := d.value(name, aliases...)
	if !ok {
		return nil
	}

	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				d.fail(fmt.Sprintf("%s[%d]", name, i), "must be a string")
				continue
			}
			out = append(out, s)
		}
		return out
	}

	d.fail(name, "must be a list of strings")
	return nil
}

// object returns a nested mapping. YAML v2 decodes nested mappings with
// interface keys, so both shapes are accepted.
func (d *decoder) object(name string, aliases ...string) (map[string]any, bool) {
	v, ok := d.value(name, aliases...)
	if !ok {
		return nil, false
	}

	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				d.fail(name, "must have string keys")
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}

	d.fail(name, "must be an object")
	return nil, false
}
