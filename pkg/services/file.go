package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func SafeJoin(root, sub, target string) string {
	if strings.Contains(target, "..") {
		return ""
	}
	return filepath.Join(root, sub, filepath.Clean("/"+target))
}

// splitFrontMatter returns the front matter block delimited by delim lines and the rest.
func splitFrontMatter(str, delim string) (string, string, bool) {
	str = strings.ReplaceAll(str, "\r\n", "\n")
	if !strings.HasPrefix(str, delim+"\n") {
		return "", "", false
	}
	rest := str[len(delim)+1:]
	if strings.HasPrefix(rest, delim+"\n") || rest == delim {
		return "", strings.TrimPrefix(rest, delim), true
	}
	end := strings.Index(rest, "\n"+delim+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+delim) {
			return rest[:len(rest)-len(delim)-1], "", true
		}
		return "", "", false
	}
	return rest[:end], rest[end+len(delim)+2:], true
}

func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := string(content)
	// YAML (---)
	if fm, body, ok := splitFrontMatter(str, "---"); ok {
		var out map[string]interface{}
		if err := yaml.Unmarshal([]byte(fm), &out); err != nil {
			return nil, "", "", fmt.Errorf("yaml front matter: %w", err)
		}
		if out == nil {
			out = map[string]interface{}{}
		}
		return out, strings.TrimSpace(body), "yaml", nil
	}
	// TOML (+++)
	if fm, body, ok := splitFrontMatter(str, "+++"); ok {
		var out map[string]interface{}
		if err := toml.Unmarshal([]byte(fm), &out); err != nil {
			return nil, "", "", fmt.Errorf("toml front matter: %w", err)
		}
		if out == nil {
			out = map[string]interface{}{}
		}
		return out, strings.TrimSpace(body), "toml", nil
	}
	// JSON ({), whole file; body lives under the "body" key
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		var out map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(content))
		if err := dec.Decode(&out); err == nil {
			body, _ := out["body"].(string)
			delete(out, "body")
			return out, body, "json", nil
		}
	}

	return nil, "", "", fmt.Errorf("unknown format")
}
