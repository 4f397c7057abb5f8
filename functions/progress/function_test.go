package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	domainprogress "github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/testing/mocks"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

type fixture struct {
	mu        sync.Mutex
	stored    []domainprogress.CompletedExercise
	resets    int64
	published []event.Event
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	db := &mocks.MockDatabase{
		GetProgressFunc: func(ctx context.Context, userID string) (*domainprogress.Snapshot, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return &domainprogress.Snapshot{
				Completions: append([]domainprogress.CompletedExercise(nil), f.stored...),
				Generation:  f.resets,
			}, nil
		},
		AddCompletionFunc: func(ctx context.Context, userID string, day domainprogress.Day, c domainprogress.CompletedExercise) (bool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.stored = append(f.stored, c)
			return true, nil
		},
		ResetProgressFunc: func(ctx context.Context, userID string) (int64, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.stored = nil
			f.resets++
			return f.resets, nil
		},
	}
	pub := &mocks.MockPublisher{
		PublishCloudEventFunc: func(ctx context.Context, topic string, e event.Event) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.published = append(f.published, e)
			return "msg-1", nil
		},
	}
	catalog := exercise.Default()
	svc = &bootstrap.Service{
		DB:      db,
		Pub:     pub,
		Catalog: catalog,
		Wellness: &wellness.Service{
			DB:      db,
			Pub:     pub,
			Catalog: catalog,
		},
		Config: &bootstrap.Config{ProjectID: "test-project"},
	}
	return f
}

func TestCompleteExercise(t *testing.T) {
	f := setupService(t)

	body := `{"userId":"u1","exerciseId":"cat-cow","recommended":true}`
	w := httptest.NewRecorder()
	CompleteExercise(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var res wellness.CompleteResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Added || res.Completion.XPGained != 25 {
		t.Errorf("res = %+v", res)
	}
	if res.Progress.StreakCount != 1 {
		t.Errorf("StreakCount = %d, want 1", res.Progress.StreakCount)
	}
	if len(f.published) != 1 {
		t.Errorf("published = %d, want 1", len(f.published))
	}

	// Repeat is reported, not rejected.
	w = httptest.NewRecorder()
	CompleteExercise(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("repeat status = %d", w.Code)
	}
	res = wellness.CompleteResult{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Added {
		t.Error("repeat completion should not be added")
	}
	if len(f.stored) != 1 {
		t.Errorf("stored = %d, want 1", len(f.stored))
	}
}

func TestCompleteExercise_Errors(t *testing.T) {
	setupService(t)

	tests := []struct {
		name     string
		body     string
		want     int
		wantCode string
	}{
		{name: "unknown exercise", body: `{"userId":"u1","exerciseId":"handstand"}`, want: http.StatusNotFound, wantCode: "EXERCISE_NOT_FOUND"},
		{name: "missing exercise", body: `{"userId":"u1"}`, want: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "missing user", body: `{"exerciseId":"cat-cow"}`, want: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			CompleteExercise(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestGetProgressAndReset(t *testing.T) {
	setupService(t)

	for _, id := range []string{"cat-cow", "farmer-carry"} {
		w := httptest.NewRecorder()
		CompleteExercise(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"u1","exerciseId":"`+id+`","recommended":true}`)))
		if w.Code != http.StatusOK {
			t.Fatalf("complete %s: %d", id, w.Code)
		}
	}

	w := httptest.NewRecorder()
	GetProgress(w, httptest.NewRequest(http.MethodGet, "/?userId=u1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var sum wellness.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalXP != 70 || len(sum.Completions) != 2 || !sum.StreakExtendedToday {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Level.Number != 1 || sum.XPToNextLevel != 30 {
		t.Errorf("level = %+v, toNext = %d", sum.Level, sum.XPToNextLevel)
	}

	w = httptest.NewRecorder()
	ResetProgress(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"u1"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	var reset resetResponse
	if err := json.Unmarshal(w.Body.Bytes(), &reset); err != nil {
		t.Fatal(err)
	}
	if reset.Generation != 1 {
		t.Errorf("Generation = %d, want 1", reset.Generation)
	}

	w = httptest.NewRecorder()
	GetProgress(w, httptest.NewRequest(http.MethodGet, "/?userId=u1", nil))
	sum = wellness.Summary{}
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.TotalXP != 0 || sum.StreakCount != 0 || sum.Generation != 1 {
		t.Errorf("after reset = %+v", sum)
	}
}

func TestGetProgress_MissingUser(t *testing.T) {
	setupService(t)
	w := httptest.NewRecorder()
	GetProgress(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
