// Package store owns the family's records, category vocabulary, settings and
// onboarding flag. State lives in memory and every mutation is written
// through to its blob slot. Slot write failures are logged and otherwise
// ignored: the in-memory state stays authoritative for the session.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/blob"
	"github.com/dvloznov/family-budget/internal/domain"
	"github.com/dvloznov/family-budget/internal/logger"
)

// Slot keys. They match the keys the budget app has always used.
const (
	KeyTransactions   = "family_budget_data"
	KeyCategories     = "family_budget_categories"
	KeySettings       = "family_budget_settings"
	KeyOnboardingDone = "family_budget_onboarding_done"
)

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	blobs blob.Store
	log   zerolog.Logger

	transactions []domain.Transaction
	categories   []string
	settings     domain.FamilySettings
	onboarded    bool
}

// New reads all slots once. A missing or undecodable slot falls back to its
// default and is reported at warn level; New only fails on a nil blob store.
func New(ctx context.Context, blobs blob.Store, log zerolog.Logger) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("store: blob store is required")
	}

	s := &Store{
		blobs: blobs,
		log:   logger.Component(log, "store"),
	}
	s.transactions = s.loadTransactions(ctx)
	s.categories = s.loadCategories(ctx)
	s.settings = s.loadSettings(ctx)
	s.onboarded = s.loadOnboarding(ctx)

	s.log.Info().
		Int("transactions", len(s.transactions)).
		Int("categories", len(s.categories)).
		Bool("onboarded", s.onboarded).
		Msg("Record store loaded")

	return s, nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		s.log.Debug().Str("slot", key).Msg("Slot empty, using default")
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("slot", key).Msg("Failed to read slot, using default")
		return nil, false
	}
	return raw, true
}

func (s *Store) loadTransactions(ctx context.Context) []domain.Transaction {
	raw, ok := s.read(ctx, KeyTransactions)
	if !ok {
		return []domain.Transaction{}
	}

	var txs []domain.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		s.log.Warn().Err(err).Str("slot", KeyTransactions).Msg("Undecodable slot, starting with no transactions")
		return []domain.Transaction{}
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}

	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = uuid.New().String()
		}
	}
	return txs
}

func (s *Store) loadCategories(ctx context.Context) []string {
	raw, ok := s.read(ctx, KeyCategories)
	if !ok {
		return domain.DefaultCategories()
	}

	var cats []string
	if err := json.Unmarshal(raw, &cats); err != nil {
		s.log.Warn().Err(err).Str("slot", KeyCategories).Msg("Undecodable slot, using default categories")
		return domain.DefaultCategories()
	}
	return domain.DedupeCategories(cats)
}

func (s *Store) loadSettings(ctx context.Context) domain.FamilySettings {
	settings := domain.DefaultSettings()

	raw, ok := s.read(ctx, KeySettings)
	if !ok {
		return settings
	}

	// Decoding onto the defaults keeps every field the stored profile lacks.
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn().Err(err).Str("slot", KeySettings).Msg("Undecodable slot, using default settings")
		return domain.DefaultSettings()
	}
	return settings
}

func (s *Store) loadOnboarding(ctx context.Context) bool {
	raw, ok := s.read(ctx, KeyOnboardingDone)
	if !ok {
		return false
	}

	var done bool
	if err := json.Unmarshal(raw, &done); err != nil {
		s.log.Warn().Err(err).Str("slot", KeyOnboardingDone).Msg("Undecodable slot, onboarding not completed")
		return false
	}
	return done
}

// persist rewrites a slot in full. Callers hold the write lock so slot
// writes happen in mutation order.
func (s *Store) persist(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("slot", key).Msg("Failed to encode slot")
		return
	}
	if err := s.blobs.Put(ctx, key, raw); err != nil {
		s.log.Error().Err(err).Str("slot", key).Msg("Failed to write slot")
	}
}

// Transactions returns a copy of all records, newest additions first.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Transaction looks up a record by id.
func (s *Store) Transaction(id string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.transactions[i], nil
	}
	return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add validates the input, assigns a fresh id and stores the record.
func (s *Store) Add(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := in.WithID(uuid.New().String())
	s.transactions = append([]domain.Transaction{t}, s.transactions...)
	s.persist(ctx, KeyTransactions, s.transactions)
	s.learnCategory(ctx, t.Category)

	s.log.Debug().Str("id", t.ID).Str("category", t.Category).Msg("Transaction added")
	return t, nil
}

// Update replaces every editable field of the record with the given id.
func (s *Store) Update(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	t := in.WithID(id)
	s.transactions[i] = t
	s.persist(ctx, KeyTransactions, s.transactions)
	s.learnCategory(ctx, t.Category)

	s.log.Debug().Str("id", id).Msg("Transaction updated")
	return t, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	s.transactions = append(s.transactions[:i:i], s.transactions[i+1:]...)
	s.persist(ctx, KeyTransactions, s.transactions)

	s.log.Debug().Str("id", id).Msg("Transaction deleted")
	return nil
}

// ApplyDrafts stores receipt drafts as new records. All drafts are validated
// first; if one is invalid nothing is stored.
func (s *Store) ApplyDrafts(ctx context.Context, drafts []domain.TransactionInput) ([]domain.Transaction, error) {
	normalized := make([]domain.TransactionInput, len(drafts))
	for i, d := range drafts {
		d = d.Normalize()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("draft %d: %w", i, err)
		}
		normalized[i] = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]domain.Transaction, 0, len(normalized))
	for _, d := range normalized {
		added = append(added, d.WithID(uuid.New().String()))
	}

	// Prepended in receipt order, ahead of everything stored before.
	s.transactions = append(append([]domain.Transaction{}, added...), s.transactions...)
	s.persist(ctx, KeyTransactions, s.transactions)
	for _, t := range added {
		s.learnCategory(ctx, t.Category)
	}

	s.log.Info().Int("count", len(added)).Msg("Receipt drafts applied")
	return added, nil
}

// Categories returns the vocabulary in display order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddCategory appends a trimmed name to the vocabulary. It reports false for
// blank names and names already present.
func (s *Store) AddCategory(ctx context.Context, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.learnCategory(ctx, name)
}

func (s *Store) learnCategory(ctx context.Context, name string) bool {
	next := domain.DedupeCategories(append(append([]string{}, s.categories...), name))
	if len(next) == len(s.categories) {
		return false
	}
	s.categories = next
	s.persist(ctx, KeyCategories, s.categories)
	return true
}

// Settings returns the current family profile.
func (s *Store) Settings() domain.FamilySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// ReplaceSettings overwrites the whole profile.
func (s *Store) ReplaceSettings(ctx context.Context, settings domain.FamilySettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.persist(ctx, KeySettings, s.settings)
}

// OnboardingCompleted reports whether the onboarding conversation finished.
func (s *Store) OnboardingCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.onboarded
}

// CompleteOnboarding stores the profile gathered during onboarding and sets the flag.
func (s *Store) CompleteOnboarding(ctx context.Context, settings domain.FamilySettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.onboarded = true
	s.persist(ctx, KeySettings, s.settings)
	s.persist(ctx, KeyOnboardingDone, true)

	s.log.Info().Str("family", settings.FamilyName).Msg("Onboarding completed")
}
