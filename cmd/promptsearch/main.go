// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/poiesic/promptsearch"
	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/core"
	"github.com/poiesic/promptsearch/search"
	"github.com/urfave/cli/v2"
)

var dbFlag = &cli.StringFlag{
	Name:    "db",
	Aliases: []string{"d"},
	Usage:   "Path to the prompt library directory",
	Value:   "./prompt_library",
	EnvVars: []string{"PROMPTSEARCH_DB"},
}

func main() {
	app := &cli.App{
		Name:  "promptsearch",
		Usage: "Search and browse a local prompt library",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search prompts by query",
				ArgsUsage: "<query terms>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultLimit,
					},
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Restrict results to one category",
					},
					&cli.StringSliceFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "Require at least one of these tags",
					},
					&cli.BoolFlag{
						Name:  "no-synonyms",
						Usage: "Disable synonym expansion of the query",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Skip the semantic rerank pass",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "OpenAI-compatible embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
			{
				Name:      "quick",
				Usage:     "Fast lexical-only lookup",
				ArgsUsage: "<query terms>",
				Action:    quickCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultQuickLimit,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List all prompts in insertion order",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Only list prompts in this category",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show a single prompt in full",
				ArgsUsage: "<prompt-id>",
				Action:    showCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "categories",
				Usage:  "List categories in use with prompt counts",
				Action: categoriesCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "tags",
				Usage:  "List tags in use with prompt counts",
				Action: tagsCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "random",
				Usage:  "Show a random prompt",
				Action: randomCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Pick from this category only",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openLibrary opens the library named by the --db flag.
func openLibrary(c *cli.Context, opts ...promptsearch.LibraryOption) (*promptsearch.Library, error) {
	lib, err := promptsearch.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt library: %w", err)
	}
	return lib, nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	var libOpts []promptsearch.LibraryOption
	if c.Bool("no-rerank") {
		libOpts = append(libOpts, promptsearch.WithoutReranking())
	}
	if c.String("embedding-host") != "" || c.String("embedding-model") != "" {
		var cfgOpts []ai.ConfigOption
		if host := c.String("embedding-host"); host != "" {
			cfgOpts = append(cfgOpts, ai.WithEmbeddingHost(host))
		}
		if model := c.String("embedding-model"); model != "" {
			cfgOpts = append(cfgOpts, ai.WithEmbeddingModel(model))
		}
		libOpts = append(libOpts, promptsearch.WithAIConfig(ai.DefaultConfig(cfgOpts...)))
	}

	lib, err := openLibrary(c, libOpts...)
	if err != nil {
		return err
	}
	defer lib.Close()

	opts := search.Options{
		Limit:           c.Int("limit"),
		Category:        core.Category(c.String("category")),
		Tags:            c.StringSlice("tag"),
		DisableSynonyms: c.Bool("no-synonyms"),
	}

	results, err := lib.Search(ctx, query, opts)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No prompts matched.")
		return nil
	}

	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	for i, result := range results {
		title.Printf("%d. %s", i+1, result.Prompt.Title)
		fmt.Printf("  [%0.3f]\n", result.Score)
		dim.Printf("   id: %s  category: %s", result.Prompt.Id, result.Prompt.Category)
		if len(result.Prompt.Tags) > 0 {
			dim.Printf("  tags: %s", strings.Join(result.Prompt.Tags, ", "))
		}
		fmt.Println()
		if len(result.MatchedFields) > 0 {
			dim.Printf("   matched: %s\n", strings.Join(result.MatchedFields, ", "))
		}
		if result.Prompt.Description != "" {
			fmt.Printf("   %s\n", result.Prompt.Description)
		}
	}
	return nil
}

func quickCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	prompts, err := lib.QuickSearch(ctx, query, c.Int("limit"))
	if err != nil {
		return err
	}

	for _, prompt := range prompts {
		fmt.Printf("%s\t%s\n", prompt.Id, prompt.Title)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	prompts, err := lib.Repository().ListPrompts(ctx)
	if err != nil {
		return err
	}

	category := core.Category(c.String("category"))
	for _, prompt := range prompts {
		if category != "" && prompt.Category != category {
			continue
		}
		fmt.Printf("%s\t%-12s\t%s\n", prompt.Id, prompt.Category, prompt.Title)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("a prompt id is required")
	}

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	prompt, err := lib.Repository().GetPrompt(ctx, id)
	if err != nil {
		return err
	}

	printPrompt(prompt)
	return nil
}

func categoriesCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	counts, err := lib.Repository().ListCategories(ctx)
	if err != nil {
		return err
	}

	// Stable output: walk the closed category set in declaration order.
	for _, category := range core.Categories {
		if n, ok := counts[category]; ok {
			fmt.Printf("%-12s\t%d\n", category, n)
		}
	}
	return nil
}

func tagsCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	counts, err := lib.Repository().ListTags(ctx)
	if err != nil {
		return err
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("%-20s\t%d\n", tag, counts[tag])
	}
	return nil
}

func randomCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(c, promptsearch.WithoutReranking())
	if err != nil {
		return err
	}
	defer lib.Close()

	prompt, err := lib.Repository().RandomPrompt(ctx, core.Category(c.String("category")))
	if err != nil {
		return err
	}

	printPrompt(prompt)
	return nil
}

// printPrompt renders one prompt in full.
func printPrompt(prompt *core.Prompt) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	title.Println(prompt.Title)
	dim.Printf("id: %s  category: %s", prompt.Id, prompt.Category)
	if len(prompt.Tags) > 0 {
		dim.Printf("  tags: %s", strings.Join(prompt.Tags, ", "))
	}
	fmt.Println()
	if prompt.Description != "" {
		fmt.Println(prompt.Description)
	}
	fmt.Println()
	fmt.Println(prompt.Content)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
