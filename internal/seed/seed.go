// Package seed loads game modes and practice texts from a TOML corpus.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/BurntSushi/toml"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/normalize"
	"github.com/typerank/typerank-server/internal/service"
	"github.com/typerank/typerank-server/internal/store"
)

//go:embed default.toml
var defaultCorpus []byte

// Corpus is the TOML document:
//
//	[[game_modes]]
//	type = "BY_TIME"
//	value = 60
//
//	[[texts]]
//	language = "ENGLISH"
//	content = "..."
type Corpus struct {
	GameModes []GameModeEntry `toml:"game_modes"`
	Texts     []TextEntry     `toml:"texts"`
}

// GameModeEntry is one game mode row.
type GameModeEntry struct {
	Type  string `toml:"type"`
	Value int    `toml:"value"`
}

// TextEntry is one practice text. Language accepts codes such as "en".
type TextEntry struct {
	Language string `toml:"language"`
	Content  string `toml:"content"`
}

// Result counts what a seeding run created.
type Result struct {
	GameModesCreated int
	TextsCreated     int
	TextsSkipped     int
}

// LoadFile decodes a corpus file.
func LoadFile(path string) (*Corpus, error) {
	var c Corpus
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("corpus %s: unknown key %q", path, undecoded[0].String())
	}
	return &c, nil
}

// Load decodes a corpus from r.
func Load(r io.Reader) (*Corpus, error) {
	var c Corpus
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return &c, nil
}

// Default returns the built-in corpus.
func Default() *Corpus {
	c, err := Load(bytes.NewReader(defaultCorpus))
	if err != nil {
		panic(fmt.Sprintf("built-in corpus: %v", err))
	}
	return c
}

// Validate resolves languages and checks every entry. It reports all problems at once.
func (c *Corpus) Validate() error {
	var errs []error
	for i, m := range c.GameModes {
		if !domain.GameModeType(m.Type).Valid() {
			errs = append(errs, fmt.Errorf("game_modes[%d]: unknown type %q", i, m.Type))
		}
		if m.Value <= 0 {
			errs = append(errs, fmt.Errorf("game_modes[%d]: value must be positive", i))
		}
	}
	for i, t := range c.Texts {
		if _, ok := domain.ParseLanguage(t.Language); !ok {
			errs = append(errs, fmt.Errorf("texts[%d]: unsupported language %q", i, t.Language))
		}
		if normalize.Text(t.Content) == "" {
			errs = append(errs, fmt.Errorf("texts[%d]: content is empty", i))
		}
	}
	return errors.Join(errs...)
}

// Seeder writes a corpus into the store. Runs are idempotent: text IDs are
// derived from language and content, and existing modes are left alone.
type Seeder struct {
	store     store.Store
	gameModes *service.GameModeService
	logger    *slog.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(store store.Store, gameModes *service.GameModeService, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, gameModes: gameModes, logger: logger}
}

// Apply validates and writes the corpus.
func (s *Seeder) Apply(ctx context.Context, c *Corpus) (Result, error) {
	var res Result
	if err := c.Validate(); err != nil {
		return res, err
	}

	modes := make([]domain.GameMode, len(c.GameModes))
	for i, m := range c.GameModes {
		modes[i] = domain.GameMode{Type: domain.GameModeType(m.Type), Value: m.Value}
	}
	created, err := s.gameModes.Ensure(ctx, modes)
	res.GameModesCreated = created
	if err != nil {
		return res, fmt.Errorf("seed game modes: %w", err)
	}

	for _, t := range c.Texts {
		lang, _ := domain.ParseLanguage(t.Language)
		content := normalize.Text(t.Content)
		text := &domain.Text{
			ID:       id.Derive(id.PrefixText, string(lang)+"\x00"+content),
			Language: lang,
			Content:  content,
		}

		err := s.store.CreateText(ctx, text)
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			res.TextsSkipped++
		case err != nil:
			return res, fmt.Errorf("seed text %s: %w", text.ID, err)
		default:
			res.TextsCreated++
		}
	}

	s.logger.Info("corpus seeded",
		"game_modes_created", res.GameModesCreated,
		"texts_created", res.TextsCreated,
		"texts_skipped", res.TextsSkipped,
	)
	return res, nil
}
