package content

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

//go:embed event.json
var eventJSON []byte

type eventFile struct {
	Program  []domain.ProgramItem `json:"program"`
	Speakers []domain.Speaker     `json:"speakers"`
}

// Catalog answers program and speaker queries. Returned items are copies
// with their placeholder filled in.
type Catalog struct {
	program      []domain.ProgramItem
	speakers     []domain.Speaker
	placeholders *PlaceholderCache
}

// LoadCatalog reads the embedded event content.
func LoadCatalog(placeholders *PlaceholderCache) (*Catalog, error) {
	var f eventFile
	if err := json.Unmarshal(eventJSON, &f); err != nil {
		return nil, fmt.Errorf("failed to decode event content: %w", err)
	}
	return NewCatalog(f.Program, f.Speakers, placeholders), nil
}

// NewCatalog builds a catalog over the given items. placeholders may be nil.
func NewCatalog(program []domain.ProgramItem, speakers []domain.Speaker, placeholders *PlaceholderCache) *Catalog {
	return &Catalog{program: program, speakers: speakers, placeholders: placeholders}
}

// Program lists program items in schedule order. A non-empty tag keeps only
// items carrying exactly that tag.
func (c *Catalog) Program(ctx context.Context, tag string) []domain.ProgramItem {
	items := make([]domain.ProgramItem, 0, len(c.program))
	for _, item := range c.program {
		if tag != "" && !slices.Contains(item.Tags, tag) {
			continue
		}
		item.Placeholder = c.placeholder(ctx, item.Image)
		items = append(items, item)
	}
	return items
}

// Speakers lists speakers whose name, company or title contains q,
// ignoring case. An empty q matches everyone.
func (c *Catalog) Speakers(ctx context.Context, q string) []domain.Speaker {
	q = strings.ToLower(strings.TrimSpace(q))

	result := make([]domain.Speaker, 0, len(c.speakers))
	for _, s := range c.speakers {
		if q != "" && !matchesSpeaker(s, q) {
			continue
		}
		s.Placeholder = c.placeholder(ctx, s.Image)
		result = append(result, s)
	}
	return result
}

func matchesSpeaker(s domain.Speaker, q string) bool {
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Company), q) ||
		strings.Contains(strings.ToLower(s.Title), q)
}

func (c *Catalog) placeholder(ctx context.Context, image string) string {
	if c.placeholders == nil {
		return ""
	}
	uri, _ := c.placeholders.Lookup(ctx, image)
	return uri
}
