// Package redact strips credentials and card data from anything headed for
// the audit trail.
package redact

import (
	"net/url"
	"strings"
)

// Marker replaces every redacted value
const Marker = "***REDACTED***"

// minSecretLength is the shortest registered secret that is scrubbed by
// value. Shorter values (a CVV, say) collide with ordinary data.
const minSecretLength = 6

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"apikey":        {},
	"creditcard":    {},
	"cardnumber":    {},
	"cvv":           {},
	"cvc":           {},
	"ssn":           {},
	"accttoken":     {},
	"authorization": {},
	"secret":        {},
	"token":         {},
}

// IsSensitiveKey reports whether a field or header name holds a secret.
// Matching ignores case, underscores and dashes: api_key, ApiKey and
// api-key all match.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[normalizeKey(key)]
	return ok
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

// IsMasked reports whether s is already a masked rendering such as
// ****1234 or ***
func IsMasked(s string) bool {
	stars := 0
	for stars < len(s) && s[stars] == '*' {
		stars++
	}
	if stars < 3 {
		return false
	}
	if s == Marker {
		return true
	}
	rest := s[stars:]
	if len(rest) > 4 {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Value returns a deep copy of v with sensitive map entries replaced by
// Marker. Maps, slices and string maps are walked; other values are
// returned unchanged.
func Value(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if IsSensitiveKey(k) {
				out[k] = redactLeaf(val)
				continue
			}
			out[k] = Value(val)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			if IsSensitiveKey(k) && !IsMasked(val) {
				out[k] = Marker
				continue
			}
			out[k] = val
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	default:
		return v
	}
}

func redactLeaf(v interface{}) interface{} {
	if s, ok := v.(string); ok && IsMasked(s) {
		return s
	}
	return Marker
}

// Headers returns a copy of headers with sensitive values redacted
func Headers(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	return Value(headers).(map[string]string)
}

// URL redacts the values of sensitive query parameters. Parameter order
// and the rest of the URL are left as they were.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		name, _, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			continue
		}
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			decoded = name
		}
		if IsSensitiveKey(decoded) {
			pairs[i] = name + "=" + Marker
		}
	}
	u.RawQuery = strings.Join(pairs, "&")
	return u.String()
}

// Scrubber removes known secret values from strings, wherever they appear
type Scrubber struct {
	secrets []string
}

// NewScrubber registers secret values. Empty and short values are ignored.
func NewScrubber(secrets ...string) *Scrubber {
	s := &Scrubber{}
	for _, secret := range secrets {
		if len(secret) >= minSecretLength {
			s.secrets = append(s.secrets, secret)
		}
	}
	return s
}

// String replaces every registered secret in str with Marker
func (s *Scrubber) String(str string) string {
	if s == nil {
		return str
	}
	for _, secret := range s.secrets {
		if strings.Contains(str, secret) {
			str = strings.ReplaceAll(str, secret, Marker)
		}
	}
	return str
}

// Value applies String to every string inside v, including map keys
func (s *Scrubber) Value(v interface{}) interface{} {
	if s == nil || len(s.secrets) == 0 {
		return v
	}
	switch t := v.(type) {
	case string:
		return s.String(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[s.String(k)] = s.Value(val)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[s.String(k)] = s.String(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = s.Value(val)
		}
		return out
	default:
		return v
	}
}
