package faq

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deskmate-labs/deskmate/internal/embedding"
)

// datasetFile mirrors the FAQ dataset on disk: an ordered list of questions,
// each with its answer split across multiple lines.
type datasetFile struct {
	QuestionsAndAnswers []struct {
		Question string   `yaml:"question"`
		Answer   []string `yaml:"answer"`
	} `yaml:"questions_and_answers"`
}

// Load reads the FAQ dataset, joins answer lines with spaces, and embeds each
// normalized question. Called once at startup.
func Load(ctx context.Context, path string, embedder embedding.Embedder) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading faq dataset: %w", err)
	}

	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing faq dataset: %w", err)
	}

	entries := make([]Entry, 0, len(file.QuestionsAndAnswers))
	for _, qa := range file.QuestionsAndAnswers {
		question := strings.TrimSpace(qa.Question)
		if question == "" {
			continue
		}

		vec, err := embedder.Embed(ctx, Normalize(question))
		if err != nil {
			return nil, fmt.Errorf("embedding faq question %q: %w", question, err)
		}

		entries = append(entries, Entry{
			Question:  question,
			Answer:    strings.TrimSpace(strings.Join(qa.Answer, " ")),
			Embedding: vec,
		})
	}

	return entries, nil
}

// Dump serializes entries back into the dataset format. Used to inline the
// full FAQ into generation prompts.
func Dump(entries []Entry) (string, error) {
	var file datasetFile
	for _, e := range entries {
		file.QuestionsAndAnswers = append(file.QuestionsAndAnswers, struct {
			Question string   `yaml:"question"`
			Answer   []string `yaml:"answer"`
		}{Question: e.Question, Answer: []string{e.Answer}})
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return "", fmt.Errorf("serializing faq dataset: %w", err)
	}
	return string(out), nil
}
