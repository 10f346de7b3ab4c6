package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eebmagic/lagnuage-immersion-app/models"
	"github.com/eebmagic/lagnuage-immersion-app/routes"
	"github.com/eebmagic/lagnuage-immersion-app/services"
	"github.com/eebmagic/lagnuage-immersion-app/store"
)

type testEnv struct {
	router   *gin.Engine
	vocab    store.VocabStore
	snippets store.SnippetStore
	users    store.UserStore
}

// failingVocab fails writes for one specific id.
type failingVocab struct {
	store.VocabStore
	failID string
}

func (f *failingVocab) UpdateReviewState(ctx context.Context, id string, state models.ReviewState) error {
	if id == f.failID {
		return errors.New("write failed")
	}
	return f.VocabStore.UpdateReviewState(ctx, id, state)
}

func newTestEnv(t *testing.T, failID string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	vocab, err := store.NewFileVocabStore(filepath.Join(dir, "vocab.json"))
	if err != nil {
		t.Fatal(err)
	}
	snippets, err := store.NewFileSnippetStore(filepath.Join(dir, "snippets.json"))
	if err != nil {
		t.Fatal(err)
	}
	users, err := store.NewFileUserStore(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatal(err)
	}

	var vocabHandle store.VocabStore = vocab
	if failID != "" {
		vocabHandle = &failingVocab{VocabStore: vocab, failID: failID}
	}

	router := gin.New()
	routes.SetupRoutes(router.Group("/"), routes.Services{
		Retrieval: services.NewRetrieval(vocabHandle, snippets, users),
		Users:     services.NewUsers(users),
		Loader:    services.NewLoader(vocabHandle, snippets),
	})
	return &testEnv{router: router, vocab: vocab, snippets: snippets, users: users}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, username string) {
	t.Helper()
	if w := e.do(t, http.MethodPost, "/user?username="+username, ""); w.Code != http.StatusOK {
		t.Fatalf("seeding user: %d %s", w.Code, w.Body)
	}
}

func (e *testEnv) seedVocab(t *testing.T, items ...models.VocabularyItem) {
	t.Helper()
	if err := e.vocab.InsertMany(context.Background(), items); err != nil {
		t.Fatal(err)
	}
}

func TestPostRepAllUpdated(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")
	env.seedVocab(t, models.VocabularyItem{ID: "a"}, models.VocabularyItem{ID: "b"})

	w := env.do(t, http.MethodPost, "/rep?username=ana",
		`{"vocab": ["a", "b"], "strength": "good", "review_time": 5000}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body)
	}
	var body struct {
		Status  string                `json:"status"`
		Results []services.ItemStatus `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "updated" || len(body.Results) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestPostRepAllNotFound(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")

	w := env.do(t, http.MethodPost, "/rep?username=ana",
		`{"vocab": ["ghost"], "strength": "good", "review_time": 5000}`)
	if w.Code != http.StatusNoContent {
		t.Errorf("code = %d, want 204", w.Code)
	}
}

func TestPostRepAllFailed(t *testing.T) {
	env := newTestEnv(t, "a")
	env.seedUser(t, "ana")
	env.seedVocab(t, models.VocabularyItem{ID: "a"})

	w := env.do(t, http.MethodPost, "/rep?username=ana",
		`{"vocab": ["a"], "strength": "good", "review_time": 5000}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d, want 422", w.Code)
	}
}

func TestPostRepMixed(t *testing.T) {
	env := newTestEnv(t, "c")
	env.seedUser(t, "ana")
	env.seedVocab(t, models.VocabularyItem{ID: "a"}, models.VocabularyItem{ID: "c"})

	w := env.do(t, http.MethodPost, "/rep?username=ana",
		`{"vocab": ["a", "b", "c"], "strength": "good", "review_time": 5000}`)
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("code = %d, want 207, body = %s", w.Code, w.Body)
	}
	var body struct {
		Status  string                `json:"status"`
		Results []services.ItemStatus `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "partial" || len(body.Results) != 3 {
		t.Fatalf("body = %+v", body)
	}
	wantStatuses := []string{"updated", "not_found", "error"}
	for i, want := range wantStatuses {
		if body.Results[i].Status != want {
			t.Errorf("result %d = %s, want %s", i, body.Results[i].Status, want)
		}
	}
}

func TestPostRepValidation(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")

	cases := map[string]struct {
		target string
		body   string
	}{
		"missing username":    {"/rep", `{"vocab": ["a"], "strength": "good", "review_time": 5000}`},
		"empty vocab":         {"/rep?username=ana", `{"vocab": [], "strength": "good", "review_time": 5000}`},
		"missing strength":    {"/rep?username=ana", `{"vocab": ["a"], "review_time": 5000}`},
		"bad json":            {"/rep?username=ana", `{"vocab": `},
		"unknown strength":    {"/rep?username=ana", `{"vocab": ["a"], "strength": "wild", "review_time": 5000}`},
		"missing review_time": {"/rep?username=ana", `{"vocab": ["a"], "strength": "good"}`},
	}
	for name, tc := range cases {
		if w := env.do(t, http.MethodPost, tc.target, tc.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: code = %d, want 400", name, w.Code)
		}
	}
}

func TestPostRepZeroReviewTime(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")
	env.seedVocab(t, models.VocabularyItem{ID: "a"})

	// Epoch zero is a legal timestamp, not an absent field.
	w := env.do(t, http.MethodPost, "/rep?username=ana",
		`{"vocab": ["a"], "strength": "good", "review_time": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body)
	}

	item, err := env.vocab.FindByID(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if item.RepData.LastReview == nil || *item.RepData.LastReview != 0 {
		t.Errorf("last_review = %v, want 0", item.RepData.LastReview)
	}
}

func TestPostRepUnknownUser(t *testing.T) {
	env := newTestEnv(t, "")
	w := env.do(t, http.MethodPost, "/rep?username=nobody",
		`{"vocab": ["a"], "strength": "good", "review_time": 5000}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", w.Code)
	}
}

func TestGetRep(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")
	nowSec := float64(time.Now().Unix())
	last1, last2 := nowSec-50_000, nowSec-1_000
	env.seedVocab(t,
		models.VocabularyItem{ID: "older", RepData: models.ReviewState{
			LastReview: &last1, LastStrength: "good", HistoryLength: 1,
			History: []models.ReviewRecord{{Strength: "good", Time: last1}}}},
		models.VocabularyItem{ID: "newer", RepData: models.ReviewState{
			LastReview: &last2, LastStrength: "good", HistoryLength: 1,
			History: []models.ReviewRecord{{Strength: "good", Time: last2}}}},
	)

	w := env.do(t, http.MethodGet, "/rep?username=ana&rank_type=recent&n=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body)
	}
	var body struct {
		Vocab []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"vocab"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Vocab) != 1 || body.Vocab[0].ID != "older" {
		t.Errorf("vocab = %+v", body.Vocab)
	}
}

func TestGetRepValidation(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedUser(t, "ana")

	for name, target := range map[string]string{
		"bad rank_type":    "/rep?username=ana&rank_type=wild",
		"non-integer n":    "/rep?username=ana&rank_type=recent&n=ten",
		"negative n":       "/rep?username=ana&rank_type=recent&n=-1",
		"missing username": "/rep?rank_type=recent",
	} {
		if w := env.do(t, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: code = %d, want 400", name, w.Code)
		}
	}

	if w := env.do(t, http.MethodGet, "/rep?username=nobody&rank_type=recent", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: code = %d, want 404", w.Code)
	}
}
