package enrich

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reCodeFence  = regexp.MustCompile("(?m)^```[a-zA-Z0-9]*[ \t]*\r?\n?")
	reHeading    = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	reBullet     = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	reNumbered   = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reEmphasis   = regexp.MustCompile(`\*([^*\n]+)\*`)
	reUnderline  = regexp.MustCompile(`__([^_]+)__`)
	reInlineCode = regexp.MustCompile("`([^`\n]+)`")
	reSpaceRuns  = regexp.MustCompile(` {2,}`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes the markdown noise models emit despite being
// told not to: code fences, heading and list markers, emphasis, inline
// code, and runs of blank lines or spaces. It is idempotent: applying
// it to already-clean text returns the text unchanged.
func StripMarkdown(s string) string {
	s = reCodeFence.ReplaceAllString(s, "")
	s = reHeading.ReplaceAllString(s, "")
	s = reBullet.ReplaceAllString(s, "")
	s = reNumbered.ReplaceAllString(s, "")
	s = reBold.ReplaceAllString(s, "$1")
	s = reEmphasis.ReplaceAllString(s, "$1")
	s = reUnderline.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "\t", " ")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Normalize post-processes a provider's raw text for the given field
// category. validationFailed reports that the raw text did not meet the
// field's contract and value is the current value unchanged; only
// structured lists can fail. Never returns an error: a formatting
// problem downgrades the result, it does not abort the request.
func Normalize(kind FieldKind, raw string, current Value) (value Value, validationFailed bool) {
	spec, ok := kindSpecs[kind]
	if !ok {
		spec = kindSpecs[KindNarrative]
	}
	return spec.normalize(raw, current)
}

func normalizeNarrative(raw string, _ Value) (Value, bool) {
	return NarrativeValue(StripMarkdown(raw)), false
}

// normalizeClueList parses and schema-checks the model's JSON. On any
// failure the current value is returned untouched: partial or malformed
// structured data is worse than stale data, so the pipeline never
// invents a best-effort structure.
func normalizeClueList(raw string, current Value) (Value, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return current, true
	}

	segment, ok := extractJSON(raw)
	if !ok {
		return current, true
	}

	clues, ok := parseClues(segment)
	if !ok {
		// JSON mode constrains some providers to a top-level object, so
		// the requested array arrives wrapped, e.g. {"clues":[...]}.
		clues, ok = unwrapClues(segment)
	}
	if !ok {
		return current, true
	}
	return ClueListValue(clues), false
}

// unwrapClues looks inside a JSON object for a value that is a valid
// clue array. Keys are not trusted; the schema check decides.
func unwrapClues(segment json.RawMessage) ([]Clue, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(segment, &obj); err != nil {
		return nil, false
	}
	for _, v := range obj {
		if clues, ok := parseClues(v); ok {
			return clues, true
		}
	}
	return nil, false
}

// normalizeTagList splits a comma-delimited response into trimmed,
// non-empty tags. This path cannot fail validation.
func normalizeTagList(raw string, _ Value) (Value, bool) {
	var tags []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tags = append(tags, token)
		}
	}
	return TagListValue(tags), false
}

// extractJSON returns a parseable JSON segment from raw: the whole text
// when it parses directly, otherwise the first balanced [...] or {...}
// substring. Models love wrapping JSON in prose and code fences.
func extractJSON(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), true
	}

	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '[' && trimmed[i] != '{' {
			continue
		}
		segment, ok := balancedSegment(trimmed[i:])
		if ok && json.Valid([]byte(segment)) {
			return json.RawMessage(segment), true
		}
		// An unbalanced or invalid candidate means anything after it is
		// inside the same broken structure; give up rather than guess.
		break
	}
	return nil, false
}

// balancedSegment returns the prefix of s that closes the bracket s
// opens with, tracking JSON string literals so brackets inside strings
// do not count.
func balancedSegment(s string) (string, bool) {
	open := s[0]
	var closer byte = ']'
	if open == '{' {
		closer = '}'
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
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
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// parseClues schema-checks a JSON array of clue objects: every element
// must be an object carrying an integer id, a string description, and a
// string hint. Any violation rejects the whole array.
func parseClues(segment json.RawMessage) ([]Clue, bool) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(segment, &items); err != nil {
		return nil, false
	}

	clues := make([]Clue, 0, len(items))
	for _, item := range items {
		var clue Clue
		idRaw, ok := item["id"]
		if !ok || json.Unmarshal(idRaw, &clue.ID) != nil {
			return nil, false
		}
		descRaw, ok := item["description"]
		if !ok || json.Unmarshal(descRaw, &clue.Description) != nil {
			return nil, false
		}
		hintRaw, ok := item["hint"]
		if !ok || json.Unmarshal(hintRaw, &clue.Hint) != nil {
			return nil, false
		}
		clues = append(clues, clue)
	}
	return clues, true
}
