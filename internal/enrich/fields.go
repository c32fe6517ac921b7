package enrich

// fieldKinds maps app-level field names (and the category names
// themselves, which the API also accepts) to their category.
var fieldKinds = map[string]FieldKind{
	"story_background": KindNarrative,
	"description":      KindNarrative,
	"clues":            KindClueList,
	"target_symbols":   KindTagList,

	string(KindNarrative): KindNarrative,
	string(KindClueList):  KindClueList,
	string(KindTagList):   KindTagList,
}

// KindOf maps a field name to its category. Unknown names report
// ok=false and fall back to narrative so the pipeline never aborts over
// an unrecognized field.
func KindOf(field string) (kind FieldKind, ok bool) {
	if k, found := fieldKinds[field]; found {
		return k, true
	}
	return KindNarrative, false
}

// kindSpec bundles everything that varies per field category. Adding a
// new category is a row here, not new branching across the pipeline.
type kindSpec struct {
	buildPrompt func(Request) string
	normalize   func(raw string, current Value) (Value, bool)
	adjust      int     // signed confidence adjustment
	jsonMode    bool    // ask the provider for a JSON-only response
	temperature float64 // strict formats get colder sampling
}

var kindSpecs = map[FieldKind]kindSpec{
	KindNarrative: {
		buildPrompt: narrativePrompt,
		normalize:   normalizeNarrative,
		adjust:      5,
		temperature: 0.7,
	},
	KindClueList: {
		buildPrompt: clueListPrompt,
		normalize:   normalizeClueList,
		adjust:      -5,
		jsonMode:    true,
		temperature: 0.2,
	},
	KindTagList: {
		buildPrompt: tagListPrompt,
		normalize:   normalizeTagList,
		adjust:      -10,
		temperature: 0.3,
	},
}
