package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/eebmagic/lagnuage-immersion-app/models"
)

// The file backend keeps each collection as one JSON object file mapping
// document id to document, the same layout the ingestion pipeline writes to
// ./entries/*.json. Every operation reads and rewrites the whole file under
// a mutex, which is fine at the corpus sizes this backend is meant for
// (local single-user setups and tests).

func ensureFile(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte("{}"), 0o644)
}

func readCollection(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeCollection(path string, docs any) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileVocabStore implements VocabStore on a single JSON file.
type FileVocabStore struct {
	path string
	mu   sync.Mutex
}

func NewFileVocabStore(path string) (*FileVocabStore, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}
	return &FileVocabStore{path: path}, nil
}

func (s *FileVocabStore) load() (map[string]models.VocabularyItem, error) {
	docs := map[string]models.VocabularyItem{}
	if err := readCollection(s.path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *FileVocabStore) FindByID(ctx context.Context, id string) (*models.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	item, ok := docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *FileVocabStore) FindReviewed(ctx context.Context) ([]models.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []models.VocabularyItem{}
	for _, id := range sortedKeys(docs) {
		if docs[id].RepData.HistoryLength > 0 {
			out = append(out, docs[id])
		}
	}
	return out, nil
}

func (s *FileVocabStore) FindByNextReview(ctx context.Context, limit int) ([]models.VocabularyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.VocabularyItem, 0, len(docs))
	for _, id := range sortedKeys(docs) {
		out = append(out, docs[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RepData.NextReview != out[j].RepData.NextReview {
			return out[i].RepData.NextReview < out[j].RepData.NextReview
		}
		return out[i].WordFreq > out[j].WordFreq
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FileVocabStore) UpdateReviewState(ctx context.Context, id string, state models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	item, ok := docs[id]
	if !ok {
		return ErrNotModified
	}
	item.RepData = state
	docs[id] = item
	return writeCollection(s.path, docs)
}

func (s *FileVocabStore) InsertMany(ctx context.Context, items []models.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	for _, item := range items {
		docs[item.ID] = item
	}
	return writeCollection(s.path, docs)
}

func (s *FileVocabStore) AddParents(ctx context.Context, id string, parents, samples []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	item, ok := docs[id]
	if !ok {
		return ErrNotFound
	}
	item.Parents = unionInto(item.Parents, parents)
	item.Samples = unionInto(item.Samples, samples)
	docs[id] = item
	return writeCollection(s.path, docs)
}

func unionInto(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			existing = append(existing, v)
		}
	}
	return existing
}

func (s *FileVocabStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte("{}"), 0o644)
}

// FileSnippetStore implements SnippetStore on a single JSON file.
type FileSnippetStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSnippetStore(path string) (*FileSnippetStore, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}
	return &FileSnippetStore{path: path}, nil
}

func (s *FileSnippetStore) load() (map[string]models.Snippet, error) {
	docs := map[string]models.Snippet{}
	if err := readCollection(s.path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *FileSnippetStore) FindByID(ctx context.Context, id string) (*models.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	snip, ok := docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &snip, nil
}

func (s *FileSnippetStore) FindByIDs(ctx context.Context, ids []string) ([]models.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []models.Snippet{}
	for _, id := range ids {
		if snip, ok := docs[id]; ok {
			out = append(out, snip)
		}
	}
	return out, nil
}

func (s *FileSnippetStore) FindBySourcePosition(ctx context.Context, sourcePath string, mediaIndex int) (*models.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(docs) {
		snip := docs[id]
		if snip.SourcePath == sourcePath && snip.MediaIndex == mediaIndex {
			return &snip, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileSnippetStore) InsertMany(ctx context.Context, snippets []models.Snippet) error {
	if len(snippets) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	for _, snip := range snippets {
		docs[snip.ID] = snip
	}
	return writeCollection(s.path, docs)
}

func (s *FileSnippetStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte("{}"), 0o644)
}

// FileUserStore implements UserStore on a single JSON file.
type FileUserStore struct {
	path string
	mu   sync.Mutex
}

func NewFileUserStore(path string) (*FileUserStore, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}
	return &FileUserStore{path: path}, nil
}

func (s *FileUserStore) load() (map[string]models.UserProfile, error) {
	docs := map[string]models.UserProfile{}
	if err := readCollection(s.path, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *FileUserStore) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	user, ok := docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *FileUserStore) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(docs) {
		if docs[id].Username == username {
			user := docs[id]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileUserStore) Insert(ctx context.Context, user *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	docs[user.UserID] = *user
	return writeCollection(s.path, docs)
}

func (s *FileUserStore) RawByID(ctx context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := map[string]map[string]any{}
	if err := readCollection(s.path, &docs); err != nil {
		return nil, err
	}
	doc, ok := docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *FileUserStore) ReplaceByID(ctx context.Context, id string, doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := map[string]map[string]any{}
	if err := readCollection(s.path, &docs); err != nil {
		return err
	}
	if _, ok := docs[id]; !ok {
		return ErrNotFound
	}
	docs[id] = doc
	return writeCollection(s.path, docs)
}

func (s *FileUserStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte("{}"), 0o644)
}
