package pricing

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Currency   string          `yaml:"currency"`
	Fallback   string          `yaml:"fallback"`
	Treatments []treatmentFile `yaml:"treatments"`
}

type treatmentFile struct {
	Name     string  `yaml:"name"`
	Display  string  `yaml:"display"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Unit     string  `yaml:"unit"`
	Category string  `yaml:"category"`
}

// Load reads a YAML pricing file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a pricing table. Amounts are written in pounds.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pricing: parse: %w", err)
	}
	if c := strings.ToUpper(strings.TrimSpace(f.Currency)); c != "" && c != "GBP" {
		return nil, fmt.Errorf("pricing: unsupported currency %q", f.Currency)
	}
	entries := make([]Entry, 0, len(f.Treatments))
	for _, tr := range f.Treatments {
		entries = append(entries, Entry{
			Treatment: tr.Name,
			Display:   strings.TrimSpace(tr.Display),
			MinPence:  toPence(tr.From),
			MaxPence:  toPence(tr.To),
			Unit:      strings.TrimSpace(tr.Unit),
			Category:  strings.TrimSpace(tr.Category),
		})
	}
	return NewTable(entries, WithFallback(f.Fallback))
}

func toPence(pounds float64) int64 {
	return int64(math.Round(pounds * 100))
}
