package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/symbolica-app/symbolica/internal/db"
)

func TestDeriveStatus(t *testing.T) {
	th := Thresholds{ConfirmVotes: 3, DisputeVotes: 2}

	tests := []struct {
		name string
		up   int
		down int
		want Status
	}{
		{"no votes", 0, 0, StatusPending},
		{"below confirm threshold", 2, 0, StatusPending},
		{"confirmed", 3, 0, StatusConfirmed},
		{"confirmed despite some downvotes", 4, 2, StatusConfirmed},
		{"at threshold but tied", 3, 3, StatusDisputed},
		{"disputed", 0, 2, StatusDisputed},
		{"disputed on tie at threshold", 2, 2, StatusDisputed},
		{"one each", 1, 1, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.up, tt.down, th); got != tt.want {
				t.Errorf("DeriveStatus(%d, %d) = %q, want %q", tt.up, tt.down, got, tt.want)
			}
		})
	}
}

func setupTestStore(t *testing.T) (*Store, *db.DB) {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d, Thresholds{ConfirmVotes: 3, DisputeVotes: 2}), d
}

func insertQuest(t *testing.T, d *db.DB, id string) {
	t.Helper()
	if _, err := d.Exec(`INSERT INTO quests (id, title) VALUES (?, ?)`, id, "Quest "+id); err != nil {
		t.Fatalf("inserting quest: %v", err)
	}
}

func TestSubmitAndListEvidence(t *testing.T) {
	store, d := setupTestStore(t)
	ctx := context.Background()
	insertQuest(t, d, "q1")

	e := &Evidence{QuestID: "q1", ClueID: 2, Body: "Photographed the inscription"}
	if err := store.Submit(ctx, e); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected evidence ID to be set")
	}
	if e.Author != "anonymous" {
		t.Errorf("author = %q, want anonymous default", e.Author)
	}

	list, err := store.ListForClue(ctx, "q1", 2)
	if err != nil {
		t.Fatalf("ListForClue: %v", err)
	}
	if len(list) != 1 || list[0].Status != StatusPending {
		t.Errorf("list = %+v, want one pending item", list)
	}

	// Other clues see nothing.
	other, err := store.ListForClue(ctx, "q1", 3)
	if err != nil {
		t.Fatalf("ListForClue: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("clue 3 evidence = %+v, want none", other)
	}
}

func TestVotesDriveStatus(t *testing.T) {
	store, d := setupTestStore(t)
	ctx := context.Background()
	insertQuest(t, d, "q1")

	e := &Evidence{QuestID: "q1", ClueID: 1, Body: "Checked the site"}
	if err := store.Submit(ctx, e); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, voter := range []string{"alice", "bob", "carol"} {
		if err := store.CastVote(ctx, e.ID, voter, 1); err != nil {
			t.Fatalf("CastVote(%s): %v", voter, err)
		}
	}

	got, err := store.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Upvotes != 3 || got.Status != StatusConfirmed {
		t.Errorf("got %d upvotes status %q, want 3 confirmed", got.Upvotes, got.Status)
	}
}

func TestRepeatVoteReplacesPrevious(t *testing.T) {
	store, d := setupTestStore(t)
	ctx := context.Background()
	insertQuest(t, d, "q1")

	e := &Evidence{QuestID: "q1", ClueID: 1, Body: "b"}
	if err := store.Submit(ctx, e); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := store.CastVote(ctx, e.ID, "alice", 1); err != nil {
		t.Fatalf("CastVote up: %v", err)
	}
	if err := store.CastVote(ctx, e.ID, "alice", -1); err != nil {
		t.Fatalf("CastVote down: %v", err)
	}

	got, err := store.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Upvotes != 0 || got.Downvotes != 1 {
		t.Errorf("tally = %d/%d, want 0/1 after changed vote", got.Upvotes, got.Downvotes)
	}
}

func TestCastVoteRejectsBadValues(t *testing.T) {
	store, d := setupTestStore(t)
	ctx := context.Background()
	insertQuest(t, d, "q1")

	e := &Evidence{QuestID: "q1", ClueID: 1, Body: "b"}
	if err := store.Submit(ctx, e); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := store.CastVote(ctx, e.ID, "alice", 0); err == nil {
		t.Error("expected error for vote value 0")
	}
	if err := store.CastVote(ctx, "missing", "alice", 1); err == nil {
		t.Error("expected error for unknown evidence")
	}
}

func TestEvidenceRoutes(t *testing.T) {
	store, d := setupTestStore(t)
	insertQuest(t, d, "q1")

	r := chi.NewRouter()
	RegisterRoutes(r, store)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Submit.
	resp, err := http.Post(srv.URL+"/api/quests/q1/clues/1/evidence", "application/json",
		bytes.NewReader([]byte(`{"author":"alice","body":"Saw it myself"}`)))
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	var created Evidence
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("submit status = %d, created = %+v", resp.StatusCode, created)
	}

	// Vote.
	resp, err = http.Post(srv.URL+"/api/evidence/"+created.ID+"/votes", "application/json",
		bytes.NewReader([]byte(`{"voter":"bob","vote":1}`)))
	if err != nil {
		t.Fatalf("vote request: %v", err)
	}
	var voted Evidence
	if err := json.NewDecoder(resp.Body).Decode(&voted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if voted.Upvotes != 1 {
		t.Errorf("upvotes = %d, want 1", voted.Upvotes)
	}

	// List with derived status.
	resp, err = http.Get(srv.URL + "/api/quests/q1/clues/1/evidence")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	var list []Evidence
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(list) != 1 || list[0].Status != StatusPending {
		t.Errorf("list = %+v", list)
	}
}
