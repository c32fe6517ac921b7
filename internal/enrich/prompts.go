package enrich

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = `You are an editor for a catalogue of cultural symbols and the quests built around them. Improve the requested field while staying faithful to the quest's context. Be precise and factual. Do not invent historical claims that are not supported by the provided context.`

const narrativePromptTemplate = `Rewrite and enrich the following quest field so it reads as polished catalogue prose.

Quest title: %s
Category: %s
Background: %s

Current value:
%s

Write plain prose only. Do not use any markdown formatting: no asterisks, no bullet lists, no numbered lists, no headers. Respond with the improved text and nothing else.`

const clueListPromptTemplate = `Improve the clues of this quest. Edit the existing clues in place: refine descriptions and hints, keep the ids, and do not invent unrelated new items.

Quest title: %s
Category: %s
Background: %s

Current clues (JSON):
%s

Respond with a bare JSON array only. Each element must be an object with exactly these keys: "id" (integer), "description" (string), "hint" (string). No surrounding prose, no code fences, no keys beyond those three.`

const tagListPromptTemplate = `Suggest the symbols a player should identify in this quest.

Quest title: %s
Category: %s
Background: %s

Current symbols: %s

Respond with a single comma-separated list of symbol names and nothing else.`

const genericPromptTemplate = `Improve the "%s" field of this quest.

Quest title: %s
Category: %s
Background: %s

Current value:
%s

Write plain prose only, without markdown formatting. Respond with the improved value and nothing else.`

// BuildPrompt renders the provider-agnostic prompt for a request. It is
// pure and deterministic: fixed inputs always produce the same string.
// Unknown field names get the generic template instead of an error.
func BuildPrompt(req Request) string {
	kind, known := KindOf(req.Field)
	if !known {
		return fmt.Sprintf(genericPromptTemplate,
			req.Field,
			orUndefined(req.Context.Title),
			orUndefined(req.Context.Category),
			orUndefined(req.Context.Background),
			orUndefined(req.Current.Text),
		)
	}
	return kindSpecs[kind].buildPrompt(req)
}

func narrativePrompt(req Request) string {
	return fmt.Sprintf(narrativePromptTemplate,
		orUndefined(req.Context.Title),
		orUndefined(req.Context.Category),
		orUndefined(req.Context.Background),
		orUndefined(req.Current.Text),
	)
}

// clueListPrompt embeds the current clues verbatim so the model edits in
// place rather than inventing a fresh set.
func clueListPrompt(req Request) string {
	clues := req.Current.Clues
	if clues == nil {
		clues = []Clue{}
	}
	serialized, err := json.Marshal(clues)
	if err != nil {
		// Clue contains only plain fields; marshalling cannot fail.
		serialized = []byte("[]")
	}
	return fmt.Sprintf(clueListPromptTemplate,
		orUndefined(req.Context.Title),
		orUndefined(req.Context.Category),
		orUndefined(req.Context.Background),
		string(serialized),
	)
}

func tagListPrompt(req Request) string {
	current := strings.Join(req.Current.Tags, ", ")
	return fmt.Sprintf(tagListPromptTemplate,
		orUndefined(req.Context.Title),
		orUndefined(req.Context.Category),
		orUndefined(req.Context.Background),
		orUndefined(current),
	)
}

// orUndefined substitutes a human-readable placeholder for absent
// context so templates never interpolate empty holes.
func orUndefined(s string) string {
	if strings.TrimSpace(s) == "" {
		return "undefined"
	}
	return s
}
