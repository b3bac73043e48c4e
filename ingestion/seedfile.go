package ingestion

import (
	"fmt"
	"os"

	"github.com/poiesic/promptsearch/core"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk YAML layout consumed by cmd/seeder.
type seedFile struct {
	Prompts []seedPrompt `yaml:"prompts"`
}

type seedPrompt struct {
	Id          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Content     string   `yaml:"content"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

// LoadSeedFile reads prompts from a YAML seed file. Every prompt is
// validated; the first invalid entry fails the whole load so a partial
// library never reaches storage.
func LoadSeedFile(path string) ([]*core.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	prompts := make([]*core.Prompt, 0, len(seed.Prompts))
	for i, sp := range seed.Prompts {
		prompt := &core.Prompt{
			Id:          sp.Id,
			Title:       sp.Title,
			Description: sp.Description,
			Content:     sp.Content,
			Category:    core.Category(sp.Category),
			Tags:        sp.Tags,
		}
		if err := core.ValidatePrompt(prompt); err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}
