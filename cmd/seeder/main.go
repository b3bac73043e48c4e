package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/promptsearch"
	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/ingestion"
)

// starterPrompts seeds a fresh library when no seed file is given.
var starterPrompts = []*core.Prompt{
	{
		Title:       "Code Review Assistant",
		Description: "Structured review of a code diff.",
		Content:     "Review the following diff. Point out bugs, unclear naming, and missing error handling. Suggest concrete fixes.",
		Category:    core.CategoryCoding,
		Tags:        []string{"review", "quality"},
	},
	{
		Title:       "SQL Query Optimizer",
		Description: "Rewrite slow SQL for performance.",
		Content:     "Optimize the following SQL query. Explain which indexes it needs and why the rewritten version is faster.",
		Category:    core.CategoryCoding,
		Tags:        []string{"sql", "database", "performance"},
	},
	{
		Title:       "Regex Explainer",
		Description: "Plain-language breakdown of a regular expression.",
		Content:     "Explain what the following regular expression matches, piece by piece, with three example strings that match and two that do not.",
		Category:    core.CategoryCoding,
		Tags:        []string{"regex"},
	},
	{
		Title:       "Cold Email Writer",
		Description: "Short outreach email for a sales pitch.",
		Content:     "Write a three-paragraph cold email pitching the given product to the given audience. Keep it under 120 words.",
		Category:    core.CategoryMarketing,
		Tags:        []string{"sales", "email"},
	},
	{
		Title:       "Landing Page Headline",
		Description: "Headline and subheadline variants for a product page.",
		Content:     "Generate five headline and subheadline pairs for the given product. Vary tone from playful to formal.",
		Category:    core.CategoryMarketing,
		Tags:        []string{"copywriting"},
	},
	{
		Title:       "Blog Post Outliner",
		Description: "Outline for a long-form article.",
		Content:     "Create a detailed outline for a blog post on the given topic: hook, section headers with one-line summaries, and a conclusion.",
		Category:    core.CategoryWriting,
		Tags:        []string{"blog", "outline"},
	},
	{
		Title:       "Tone Rewriter",
		Description: "Rewrite text in a different register.",
		Content:     "Rewrite the following text in the requested tone while preserving every fact it states.",
		Category:    core.CategoryWriting,
		Tags:        []string{"editing"},
	},
	{
		Title:       "Meeting Summarizer",
		Description: "Minutes and action items from a transcript.",
		Content:     "Summarize the following meeting transcript into decisions made, open questions, and action items with owners.",
		Category:    core.CategoryProductivity,
		Tags:        []string{"meetings", "summary"},
	},
	{
		Title:       "Weekly Planner",
		Description: "Turn a task list into a weekly schedule.",
		Content:     "Given the following tasks with estimates and deadlines, produce a realistic plan for the week with buffer time.",
		Category:    core.CategoryProductivity,
		Tags:        []string{"planning"},
	},
	{
		Title:       "Lesson Plan Builder",
		Description: "Classroom lesson plan for a given topic and age group.",
		Content:     "Build a 45-minute lesson plan on the given topic for the given age group: objectives, activities, and a quick assessment.",
		Category:    core.CategoryEducation,
		Tags:        []string{"teaching"},
	},
	{
		Title:       "Story Seed Generator",
		Description: "Short fiction premises from a few keywords.",
		Content:     "Generate five one-paragraph story premises combining the given keywords. Each premise names a protagonist and a complication.",
		Category:    core.CategoryCreative,
		Tags:        []string{"fiction", "brainstorm"},
	},
	{
		Title:       "SWOT Analyzer",
		Description: "Strengths, weaknesses, opportunities, threats.",
		Content:     "Produce a SWOT analysis for the described business. Back every point with the detail from the description that supports it.",
		Category:    core.CategoryBusiness,
		Tags:        []string{"strategy"},
	},
	{
		Title:       "Dataset Profiler",
		Description: "First-pass questions to ask of a new dataset.",
		Content:     "Given the following column names and sample rows, list the quality checks and exploratory questions an analyst should start with.",
		Category:    core.CategoryAnalysis,
		Tags:        []string{"data", "exploration"},
	},
}

var (
	dbPath         = flag.String("db", "./prompt_library", "path to the prompt library directory")
	seedFileName   = flag.String("src", "", "YAML file of seed prompts")
	embeddingHost  = flag.String("embedding-host", "", "OpenAI-compatible embedding service host URL")
	embeddingModel = flag.String("embedding-model", "", "embedding model name")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	var libOpts []promptsearch.LibraryOption
	if *embeddingHost != "" || *embeddingModel != "" {
		var cfgOpts []ai.ConfigOption
		if *embeddingHost != "" {
			cfgOpts = append(cfgOpts, ai.WithEmbeddingHost(*embeddingHost))
		}
		if *embeddingModel != "" {
			cfgOpts = append(cfgOpts, ai.WithEmbeddingModel(*embeddingModel))
		}
		libOpts = append(libOpts, promptsearch.WithAIConfig(ai.DefaultConfig(cfgOpts...)))
	}

	lib, err := promptsearch.Open(*dbPath, libOpts...)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	ingester, err := lib.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer ingester.Release()

	ctx := context.Background()

	// Determine source of seed data
	prompts := starterPrompts
	if *seedFileName != "" {
		prompts, err = ingestion.LoadSeedFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	}

	added, err := ingester.Ingest(ctx, prompts...)
	if err != nil {
		panic(err)
	}
	ingester.Wait()

	slog.Info("seeding complete", "prompts", len(added), "db", *dbPath)
}
