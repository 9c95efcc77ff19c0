package clubready

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// extractor pulls one candidate value out of a decoded response object
type extractor struct {
	name string
	get  func(m map[string]interface{}) (string, bool)
}

func field(name string) extractor {
	return extractor{
		name: name,
		get: func(m map[string]interface{}) (string, bool) {
			return scalarString(m[name])
		},
	}
}

// Candidate field names, in the order they are tried. Different API
// generations have used different casings for the same value.
var (
	userIDExtractors    = []extractor{field("UserId"), field("userId"), field("Id"), field("id")}
	paymentIDExtractors = []extractor{field("PaymentId"), field("paymentId"), field("Id"), field("id")}
	messageExtractors   = []extractor{field("Message"), field("message"), field("error")}
	requestIDExtractors = []extractor{field("RequestId"), field("requestId")}
	successExtractors   = []extractor{field("Success"), field("success")}
)

// extract returns the first non-empty value produced by extractors
func extract(m map[string]interface{}, extractors []extractor) string {
	if m == nil {
		return ""
	}
	for _, e := range extractors {
		if v, ok := e.get(m); ok && v != "" {
			return v
		}
	}
	return ""
}

func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// parseBody decodes a JSON body keeping numbers exact. Anything that is not
// a single JSON value is wrapped as {"raw": text}.
func parseBody(raw []byte) interface{} {
	trimmed := bytes.TrimSpace(raw)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return rawBody(raw)
	}
	if _, err := dec.Token(); err != io.EOF {
		return rawBody(raw)
	}
	return v
}

func rawBody(raw []byte) map[string]interface{} {
	return map[string]interface{}{"raw": string(raw)}
}

func asObject(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// firstObject returns v when it is an object, or its first element when it
// is a non-empty array
func firstObject(v interface{}) map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return t
	case []interface{}:
		if len(t) > 0 {
			return asObject(t[0])
		}
	}
	return nil
}

// recordPayload picks the object describing a single record. Responses
// either wrap it in "data" (object or array) or return it at top level.
// The bool is false when the response positively carries no record.
func recordPayload(body interface{}) (map[string]interface{}, bool) {
	if list, ok := body.([]interface{}); ok {
		m := firstObject(list)
		return m, len(m) > 0
	}

	top := asObject(body)
	if top == nil {
		return nil, false
	}
	for _, key := range dataKeys {
		if data, ok := top[key]; ok {
			m := firstObject(data)
			return m, len(m) > 0
		}
	}
	return top, len(top) > 0
}

var dataKeys = []string{"data", "Data"}

// isWrapped reports whether body carries its record under a data key
func isWrapped(body interface{}) bool {
	top := asObject(body)
	for _, key := range dataKeys {
		if _, ok := top[key]; ok {
			return true
		}
	}
	return false
}

// messageOf returns the CRM's error text, or fallback
func messageOf(body interface{}, fallback string) string {
	if msg := extract(asObject(body), messageExtractors); msg != "" {
		return msg
	}
	return fallback
}

// explicitlyUnsuccessful reports a 2xx body that says Success: false
func explicitlyUnsuccessful(body interface{}) bool {
	return extract(asObject(body), successExtractors) == "false"
}
