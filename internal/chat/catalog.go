package chat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names the responder implementation behind a model option
type Backend string

const (
	BackendRules    Backend = "rules"
	BackendOllama   Backend = "ollama"
	BackendDeepSeek Backend = "deepseek"
	BackendGemini   Backend = "gemini"
)

const (
	RuleBasedModel = "rule-based"
	DeepSeekModel  = "deepseek-api"
	GeminiModel    = "gemini-api"
)

// ModelOption is one selectable entry in the model menu
type ModelOption struct {
	Label   string  `json:"label" yaml:"label"`
	ID      string  `json:"id" yaml:"id"`
	Backend Backend `json:"backend" yaml:"backend"`
	// Remote is the model name sent to the backend; defaults to ID
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// RemoteModel returns the model name the backend expects
func (m ModelOption) RemoteModel() string {
	if m.Remote != "" {
		return m.Remote
	}
	return m.ID
}

// Catalog is the ordered list of selectable models
type Catalog struct {
	options []ModelOption
}

// NewCatalog validates options and builds a catalog
func NewCatalog(options []ModelOption) (*Catalog, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if o.ID == "" {
			return nil, fmt.Errorf("model %q has no id", o.Label)
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("duplicate model id %q", o.ID)
		}
		seen[o.ID] = true
		switch o.Backend {
		case BackendRules, BackendOllama, BackendDeepSeek, BackendGemini:
		default:
			return nil, fmt.Errorf("model %q has unsupported backend %q", o.ID, o.Backend)
		}
	}
	return &Catalog{options: append([]ModelOption(nil), options...)}, nil
}

// DefaultCatalog returns the built-in model menu
func DefaultCatalog(deepseekRemote, geminiRemote string) *Catalog {
	c, _ := NewCatalog([]ModelOption{
		{Label: "Rule-based OCR assistant", ID: RuleBasedModel, Backend: BackendRules},
		{Label: "Llama 3.2 1B (Fast)", ID: "llama3.2:1b", Backend: BackendOllama},
		{Label: "Llama 3.1 8B (Better)", ID: "llama3.1:8b", Backend: BackendOllama},
		{Label: "DeepSeek Coder 1.3B (Lightweight)", ID: "deepseek-coder:1.3b", Backend: BackendOllama},
		{Label: "DeepSeek Coder 6.7B (Powerful)", ID: "deepseek-coder:6.7b", Backend: BackendOllama},
		{Label: "DeepSeek API (Cloud)", ID: DeepSeekModel, Backend: BackendDeepSeek, Remote: deepseekRemote},
		{Label: "Gemini API (Cloud)", ID: GeminiModel, Backend: BackendGemini, Remote: geminiRemote},
	})
	return c
}

// LoadCatalog reads a YAML model menu of the form
//
//	models:
//	  - label: Llama 3.2 1B (Fast)
//	    id: llama3.2:1b
//	    backend: ollama
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var file struct {
		Models []ModelOption `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	return NewCatalog(file.Models)
}

// Lookup finds a model option by id
func (c *Catalog) Lookup(id string) (ModelOption, bool) {
	for _, o := range c.options {
		if o.ID == id {
			return o, true
		}
	}
	return ModelOption{}, false
}

// Options returns a copy of the menu in display order
func (c *Catalog) Options() []ModelOption {
	return append([]ModelOption(nil), c.options...)
}
