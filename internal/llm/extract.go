package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// Extraction failures
var (
	ErrNoJSONFound   = errors.New("no JSON object found in response")
	ErrMalformedJSON = errors.New("no JSON object in response could be decoded")
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the first balanced {...} substring of text that decodes
// as a JSON object. String literals and escapes are respected while matching braces.
// A candidate that fails to decode is skipped and scanning resumes after it.
//
// Returns ErrNoJSONFound when text has no '{' at all and ErrMalformedJSON when
// nothing decodes.
func ExtractJSONObject(text string) (map[string]any, error) {
	text = CleanJSONBlock(text)
	if !strings.Contains(text, "{") {
		return nil, ErrNoJSONFound
	}

	for start := 0; start < len(text); {
		open := strings.IndexByte(text[start:], '{')
		if open < 0 {
			break
		}
		open += start

		end, inner := scanBraces(text, open)
		if end < 0 {
			// Every later '{' was seen by this scan, so the only remaining
			// candidates are the pairs it closed.
			return firstDecodable(text, inner)
		}

		if obj, ok := decodeObject(text[open : end+1]); ok {
			return obj, nil
		}
		start = end + 1
	}
	return nil, ErrMalformedJSON
}

type bracePair struct {
	open, close int
}

// scanBraces walks text from the '{' at open. It returns the index of the
// matching '}', or -1 and every balanced pair closed before the text ran out.
func scanBraces(text string, open int) (int, []bracePair) {
	var (
		stack    []int
		pairs    []bracePair
		inString bool
		escaped  bool
	)
	for i := open; i < len(text); i++ {
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
			stack = append(stack, i)
		case '}':
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
			pairs = append(pairs, bracePair{open: top, close: i})
		}
	}
	return -1, pairs
}

// firstDecodable tries pairs in order of their opening brace, skipping pairs
// nested in one that already failed.
func firstDecodable(text string, pairs []bracePair) (map[string]any, error) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].open < pairs[j].open })
	failedUntil := -1
	for _, p := range pairs {
		if p.open < failedUntil {
			continue
		}
		if obj, ok := decodeObject(text[p.open : p.close+1]); ok {
			return obj, nil
		}
		failedUntil = p.close
	}
	return nil, ErrMalformedJSON
}

func decodeObject(candidate string) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
