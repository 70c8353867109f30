package client

import (
	"bytes"
	"encoding/json"
)

// unwrapEnvelope normalizes the three envelope shapes the backend is known
// to emit: {"body_json":{"data":X}}, {"data":X}, and bare X.
//
// Precedence is body_json.data, then data, then the raw payload, decided by
// key presence rather than truthiness: an explicit "data": [] is a valid
// empty result, and a body_json object without a data key is a ParseError
// instead of being silently skipped.
func unwrapEnvelope(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &ParseError{Message: "empty response body"}
	}
	if trimmed[0] != '{' {
		// bare array or scalar payload
		return json.RawMessage(trimmed), nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &outer); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	if bodyJSON, ok := outer["body_json"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(bodyJSON, &inner); err != nil {
			return nil, &ParseError{Message: "body_json is not an object"}
		}
		data, ok := inner["data"]
		if !ok {
			return nil, &ParseError{Message: "body_json envelope without data field"}
		}
		return data, nil
	}
	if data, ok := outer["data"]; ok {
		return data, nil
	}
	// bare object payload
	return json.RawMessage(trimmed), nil
}
