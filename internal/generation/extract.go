package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model replies are not guaranteed to be clean JSON: they arrive wrapped in
// prose, inside ```json fences, or with trailing commas. ExtractObject is the
// single place that heuristic lives.
var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareObjectRe    = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractObject pulls a JSON object out of a free-text model reply and
// returns it parsed-and-validated as raw JSON.
//
// Strategy, in order: a fenced ```json block, then the first {...} span,
// then the whole reply. Trailing commas before } or ] are stripped before
// parsing.
func ExtractObject(raw string) (json.RawMessage, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, fmt.Errorf("empty model response")
	}

	if m := fencedJSONRe.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	} else if m := bareObjectRe.FindString(candidate); m != "" {
		candidate = m
	}

	candidate = trailingCommaRe.ReplaceAllString(candidate, "$1")

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	return json.RawMessage(candidate), nil
}

// ExtractInto extracts the object and unmarshals it into out.
func ExtractInto(raw string, out any) error {
	obj, err := ExtractObject(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, out); err != nil {
		return fmt.Errorf("model response does not match expected shape: %w", err)
	}
	return nil
}
