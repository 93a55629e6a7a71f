package planner

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject is returned by ExtractJSON when text contains no balanced
// {...} block at all.
var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSON finds the first balanced {...} block in text — tolerating
// leading prose, trailing commentary, and markdown code fences that a
// model-assisted agent's raw output commonly wraps its JSON in — and
// unmarshals it into a map. This is the ParseFailure mitigation shared by
// the meta-planner and any LLM-backed agent.
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	end := -1
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return nil, ErrNoJSONObject
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, err
	}
	return out, nil
}
