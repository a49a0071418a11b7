// Package deck assembles study decks. Cards come from markdown deck
// files under one or more source roots; roots can be plain directories
// or local caches of git repositories (see Sync).
package deck

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conorfennell/spacedeck/internal/cardid"
	"github.com/conorfennell/spacedeck/internal/domain"
	"github.com/conorfennell/spacedeck/internal/parser"
)

// Provider produces the cards for a study deck on a topic. The review
// engine only needs the materialized list, not knowledge of how it was
// produced.
type Provider interface {
	GenerateFlashcards(ctx context.Context, topic string) ([]domain.Card, error)
}

// FileProvider serves topic decks from markdown files: the deck for
// topic T is the first "T.md" found walking the source roots.
type FileProvider struct {
	roots []string
}

// NewFileProvider builds a FileProvider over the given roots.
func NewFileProvider(roots ...string) *FileProvider {
	return &FileProvider{roots: roots}
}

var _ Provider = (*FileProvider)(nil)

// GenerateFlashcards parses the topic's deck file and returns its cards
// with identifiers assigned. An unknown topic or an empty deck is an
// error.
func (p *FileProvider) GenerateFlashcards(_ context.Context, topic string) ([]domain.Card, error) {
	path, err := p.findDeck(topic)
	if err != nil {
		return nil, err
	}

	cards, err := parser.ParseFile(path, topic)
	if err != nil {
		return nil, fmt.Errorf("parsing deck %s: %w", path, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck %s contains no cards", path)
	}

	for i := range cards {
		cards[i].CardID = cardid.ID(cards[i].Topic, cards[i].Question)
	}
	return cards, nil
}

// Topics lists every topic available across the roots, sorted and
// deduplicated.
func (p *FileProvider) Topics() ([]string, error) {
	seen := map[string]struct{}{}
	for _, root := range p.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
				seen[strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking deck root %s: %w", root, err)
		}
	}

	topics := make([]string, 0, len(seen))
	for topic := range seen {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

func (p *FileProvider) findDeck(topic string) (string, error) {
	want := strings.ToLower(topic) + ".md"
	for _, root := range p.roots {
		var found string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.ToLower(d.Name()) == want {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("walking deck root %s: %w", root, err)
		}
		if found != "" {
			return found, nil
		}
	}
	return "", fmt.Errorf("no deck file found for topic %q", topic)
}
