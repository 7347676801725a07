package shortcode

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRe  = regexp.MustCompile(`\[([a-z][a-z0-9_]*)((?:\s[^\[\]]*)?)\]`)
	paraRe = regexp.MustCompile(`<p>\s*(\[[a-z][a-z0-9_]*(?:\s[^\[\]]*)?\])\s*</p>`)
	attrRe = regexp.MustCompile(`([A-Za-z_][\w-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// Attrs are the key=value pairs of one shortcode. Keys are lower case.
type Attrs map[string]string

// ParseAttrs reads key=value, key="value" and key='value' pairs. Input that
// went through an HTML renderer is unescaped first.
func ParseAttrs(s string) Attrs {
	s = html.UnescapeString(s)
	out := Attrs{}
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		val := m[2]
		if val == "" {
			val = m[3]
		}
		if val == "" {
			val = m[4]
		}
		out[strings.ToLower(m[1])] = strings.TrimSpace(val)
	}
	return out
}

func (a Attrs) String(key, def string) string {
	if v, ok := a[key]; ok && v != "" {
		return v
	}
	return def
}

// Int returns def when the key is absent. Unparsable values become 0 so
// validation can reject them.
func (a Attrs) Int(key string, def int) int {
	v, ok := a[key]
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Bool is true only for "true", matching how editors write the flag.
func (a Attrs) Bool(key string, def bool) bool {
	v, ok := a[key]
	if !ok || v == "" {
		return def
	}
	return strings.EqualFold(v, "true")
}
