// Package config loads annotation options from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLinkPrefix is prepended to article tokens in generated hrefs.
const DefaultLinkPrefix = "#article"

// DefaultCommentarySummary labels the collapsible commentary blocks.
const DefaultCommentarySummary = "逐条解説"

// Passes toggles individual annotation passes. The pass order itself is fixed.
type Passes struct {
	Brackets        bool `yaml:"brackets"`
	CrossReferences bool `yaml:"cross_references"`
	Links           bool `yaml:"links"`
	Style           bool `yaml:"style"`
	Definitions     bool `yaml:"definitions"`
	Commentary      bool `yaml:"commentary"`
}

// PassNames lists the pass toggles by their YAML key, in pass order.
var PassNames = []string{"brackets", "cross_references", "links", "style", "definitions", "commentary"}

// Disable turns off the pass with the given YAML key.
func (p *Passes) Disable(name string) error {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_") {
	case "brackets":
		p.Brackets = false
	case "cross_references", "refs":
		p.CrossReferences = false
	case "links":
		p.Links = false
	case "style":
		p.Style = false
	case "definitions":
		p.Definitions = false
	case "commentary":
		p.Commentary = false
	default:
		return fmt.Errorf("unknown pass %q: must be one of %s", name, strings.Join(PassNames, ", "))
	}
	return nil
}

// Options holds annotation settings.
type Options struct {
	LogLevel          string `yaml:"log_level"`
	LinkPrefix        string `yaml:"link_prefix"`
	CommentarySummary string `yaml:"commentary_summary"`
	Passes            Passes `yaml:"passes"`
}

// Default returns Options with every pass enabled.
func Default() Options {
	return Options{
		LogLevel:          "warn",
		LinkPrefix:        DefaultLinkPrefix,
		CommentarySummary: DefaultCommentarySummary,
		Passes: Passes{
			Brackets:        true,
			CrossReferences: true,
			Links:           true,
			Style:           true,
			Definitions:     true,
			Commentary:      true,
		},
	}
}

// Load reads options from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML options on top of the defaults and validates them.
func Parse(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option values.
func (o Options) Validate() error {
	if _, err := ParseLevel(o.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(o.LinkPrefix) == "" {
		return fmt.Errorf("link_prefix must not be empty")
	}
	return nil
}

// Level returns the slog level named by LogLevel, defaulting to warn.
func (o Options) Level() slog.Level {
	level, err := ParseLevel(o.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", s)
}

// Marshal renders the options as YAML.
func (o Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}
