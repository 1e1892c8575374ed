// Package i18n holds the interface language and the bilingual string table.
package i18n

import (
	"context"
	"fmt"
	"sync"

	"github.com/fadilmartias/cv-feedback/internal/storage"
)

type Language string

const (
	English Language = "en"
	Turkish Language = "tr"
)

// ParseLanguage accepts "en" and "tr".
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case English, Turkish:
		return Language(s), nil
	default:
		return "", fmt.Errorf("unsupported language %q: want en or tr", s)
	}
}

// Store is the process-wide interface language, persisted under
// storage.KeyLanguage.
type Store struct {
	mu    sync.RWMutex
	lang  Language
	store storage.Store
}

// NewStore restores the saved language. A missing or unknown value leaves
// the store on English. store may be nil, in which case nothing persists.
func NewStore(ctx context.Context, store storage.Store) (*Store, error) {
	s := &Store{lang: English, store: store}
	if store == nil {
		return s, nil
	}
	saved, ok, err := store.Get(ctx, storage.KeyLanguage)
	if err != nil {
		return s, fmt.Errorf("load language: %w", err)
	}
	if ok {
		if lang, err := ParseLanguage(saved); err == nil {
			s.lang = lang
		}
	}
	return s, nil
}

func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches and persists the interface language.
func (s *Store) SetLanguage(ctx context.Context, lang Language) error {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Set(ctx, storage.KeyLanguage, string(lang)); err != nil {
			return fmt.Errorf("save language: %w", err)
		}
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return nil
}

// T returns key in the current language.
func (s *Store) T(key Key) string {
	return Tr(key, s.Language())
}

// Tr returns key in lang, falling back to English and then to the key
// itself.
func Tr(key Key, lang Language) string {
	entry, ok := translations[key]
	if !ok {
		return string(key)
	}
	if text, ok := entry[lang]; ok {
		return text
	}
	return entry[English]
}
