package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/db"
	"github.com/symbolica-app/symbolica/internal/enrich"
)

var (
	enrichQuestID  string
	enrichField    string
	enrichProvider string
	enrichGlob     string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich quest content from the command line",
	Long: `Enriches one field of a stored quest, or runs a batch over quest JSON
files selected by a glob pattern. Batch mode rewrites each file in place
with the enriched field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (enrichQuestID == "") == (enrichGlob == "") {
			return fmt.Errorf("exactly one of --quest or --glob is required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pipeline, err := buildPipeline(cfg, nil)
		if err != nil {
			return err
		}

		if enrichQuestID != "" {
			return enrichStoredQuest(cmd.Context(), dbPath(cfg), pipeline)
		}
		return enrichQuestFiles(cmd.Context(), pipeline)
	},
}

// enrichStoredQuest enriches one field of a quest in the catalogue
// database and persists the result.
func enrichStoredQuest(ctx context.Context, path string, pipeline *enrich.Pipeline) error {
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	store := catalog.NewStore(database)

	quest, err := store.GetQuest(ctx, enrichQuestID)
	if err != nil {
		return fmt.Errorf("quest %q not found", enrichQuestID)
	}
	current, ok := quest.FieldValue(enrichField)
	if !ok {
		return fmt.Errorf("field %q is not enrichable", enrichField)
	}

	resp, err := pipeline.Enrich(ctx, enrich.Request{
		Field:    enrichField,
		Current:  current,
		Context:  quest.Context(),
		Provider: enrichProvider,
	})
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	saved := false
	if !resp.ValidationFailed {
		if err := store.SaveField(ctx, quest.ID, enrichField, resp.Value); err != nil {
			return fmt.Errorf("saving field: %w", err)
		}
		saved = true
	}
	if err := store.RecordEnrichment(ctx, &catalog.Enrichment{
		QuestID:          quest.ID,
		Field:            enrichField,
		Provider:         resp.Provider,
		Confidence:       resp.Confidence,
		ValidationFailed: resp.ValidationFailed,
	}); err != nil {
		return fmt.Errorf("recording enrichment: %w", err)
	}

	out, err := json.MarshalIndent(map[string]any{
		"questId":       quest.ID,
		"field":         enrichField,
		"enrichedValue": resp.Value,
		"provider":      resp.Provider,
		"confidence":    resp.Confidence,
		"suggestions":   resp.Suggestions,
		"saved":         saved,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// enrichQuestFiles runs batch enrichment over quest JSON files matched
// by the --glob pattern.
func enrichQuestFiles(ctx context.Context, pipeline *enrich.Pipeline) error {
	paths, err := doublestar.FilepathGlob(enrichGlob)
	if err != nil {
		return fmt.Errorf("invalid glob %q: %w", enrichGlob, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", enrichGlob)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Enriching quests"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	failures := 0
	for _, path := range paths {
		bar.Describe(path)
		if err := enrichQuestFile(ctx, pipeline, path); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "\n%s: %v\n", path, err)
		}
		bar.Add(1)
	}
	bar.Finish()

	fmt.Fprintf(os.Stderr, "Enriched %d of %d file(s)\n", len(paths)-failures, len(paths))
	if failures > 0 {
		return fmt.Errorf("%d file(s) failed", failures)
	}
	return nil
}

func enrichQuestFile(ctx context.Context, pipeline *enrich.Pipeline, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	var quest catalog.Quest
	if err := json.Unmarshal(data, &quest); err != nil {
		return fmt.Errorf("parsing quest JSON: %w", err)
	}

	current, ok := quest.FieldValue(enrichField)
	if !ok {
		return fmt.Errorf("field %q is not enrichable", enrichField)
	}

	resp, err := pipeline.Enrich(ctx, enrich.Request{
		Field:    enrichField,
		Current:  current,
		Context:  quest.Context(),
		Provider: enrichProvider,
	})
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}
	if resp.ValidationFailed {
		return fmt.Errorf("validation failed; file left unchanged")
	}

	quest.SetFieldValue(enrichField, resp.Value)
	out, err := json.MarshalIndent(&quest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quest: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichQuestID, "quest", "", "ID of the stored quest to enrich")
	enrichCmd.Flags().StringVar(&enrichField, "field", "", "quest field to enrich (story_background, description, clues, target_symbols)")
	enrichCmd.Flags().StringVar(&enrichProvider, "provider", "", "preferred LLM provider")
	enrichCmd.Flags().StringVar(&enrichGlob, "glob", "", "glob pattern selecting quest JSON files for batch mode")
	enrichCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(enrichCmd)
}
