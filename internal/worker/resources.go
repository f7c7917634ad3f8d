package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"whispersubs/internal/api"
	"whispersubs/internal/boundary"
	"whispersubs/internal/config"
	"whispersubs/internal/dictionary"
	"whispersubs/internal/spelling"
)

// LoadDictionary reads the correction dictionary. Dropped entries are
// logged; only an unreadable file is an error. An empty path yields an
// empty dictionary.
func LoadDictionary(path string) (*dictionary.Dictionary, error) {
	if path == "" {
		return dictionary.New(nil)
	}
	dict, err := dictionary.Load(path)
	if dict == nil {
		return nil, err
	}
	for _, v := range dictionary.Violations(err) {
		slog.Warn("dictionary entry dropped", "file", path, "err", v)
	}
	slog.Info("correction dictionary loaded", "file", path, "entries", dict.Len())
	return dict, nil
}

// LoadSpelling builds the spelling checker and its suggestion index. It
// returns a nil checker when spelling is not configured. Configuring only
// one of dictionary and exceptions is an error.
func LoadSpelling(cfg config.SpellingSettings, dict *dictionary.Dictionary) (*spelling.Checker, *spelling.Suggester, error) {
	if cfg.Dictionary == "" && cfg.Exceptions == "" {
		return nil, nil, nil
	}
	if cfg.Dictionary == "" || cfg.Exceptions == "" {
		return nil, nil, fmt.Errorf("spelling needs both a dictionary and exception tables: %w", spelling.ErrMissingDictionary)
	}

	words, err := spelling.LoadWordList(cfg.Dictionary)
	if err != nil {
		return nil, nil, err
	}
	tables, err := spelling.LoadTables(cfg.Exceptions)
	if tables == nil {
		return nil, nil, err
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, v := range merr.Errors {
			slog.Warn("exception entry dropped", "file", cfg.Exceptions, "err", v)
		}
	}
	slog.Info("spelling dictionary loaded", "file", cfg.Dictionary, "words", words.Len())

	vocabulary := tables.Vocabulary()
	for _, e := range dict.Entries() {
		vocabulary = append(vocabulary, e.Correction)
	}
	return spelling.New(words, tables), spelling.NewSuggester(vocabulary), nil
}

// NewOracle returns the HTTP oracle when an endpoint is configured and the
// built-in punctuation oracle otherwise.
func NewOracle(cfg config.OracleSettings) (boundary.Oracle, error) {
	if cfg.Endpoint == "" {
		return boundary.NewPunctuationOracle(), nil
	}
	return api.NewClient(api.Options{
		Endpoint:          cfg.Endpoint,
		RequestsPerMinute: cfg.RequestsPerMinute,
		MaxRetries:        cfg.MaxRetries,
		Timeout:           cfg.Timeout,
	})
}

// OpenCache builds the boundary cache and loads the persisted table when a
// cache path is configured. The caller flushes and closes it.
func OpenCache(ctx context.Context, cfg *config.Config) (*boundary.Cache, error) {
	oracle, err := NewOracle(cfg.Oracle)
	if err != nil {
		return nil, err
	}
	var store boundary.Store
	if cfg.CachePath != "" {
		s, err := boundary.OpenSQLiteStore(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		store = s
	}
	cache := boundary.NewCache(oracle, store)
	if err := cache.Load(ctx); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}
