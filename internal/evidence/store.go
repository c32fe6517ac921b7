package evidence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/symbolica-app/symbolica/internal/db"
)

// Store provides evidence submissions and votes.
type Store struct {
	db         *db.DB
	thresholds Thresholds
}

// NewStore creates a new evidence store.
func NewStore(d *db.DB, thresholds Thresholds) *Store {
	return &Store{db: d, thresholds: thresholds}
}

// Submit inserts a new piece of evidence for a quest clue.
func (s *Store) Submit(ctx context.Context, e *Evidence) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Author == "" {
		e.Author = "anonymous"
	}
	e.CreatedAt = time.Now().UTC()
	e.Status = StatusPending

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evidence (id, quest_id, clue_id, author, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.QuestID, e.ClueID, e.Author, e.Body, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("submitting evidence: %w", err)
	}
	return nil
}

// CastVote records one voter's up or down vote on a piece of evidence.
// A repeat vote by the same voter replaces the previous one; last write
// wins.
func (s *Store) CastVote(ctx context.Context, evidenceID, voter string, vote int) error {
	if vote != 1 && vote != -1 {
		return fmt.Errorf("vote must be 1 or -1, got %d", vote)
	}

	var exists string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM evidence WHERE id = ?`, evidenceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("evidence %s not found", evidenceID)
	}
	if err != nil {
		return fmt.Errorf("looking up evidence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evidence_votes (evidence_id, voter, vote, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(evidence_id, voter) DO UPDATE SET vote = excluded.vote, created_at = excluded.created_at`,
		evidenceID, voter, vote, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("casting vote: %w", err)
	}
	return nil
}

// ListForClue returns a clue's evidence with vote tallies and derived
// status, newest first.
func (s *Store) ListForClue(ctx context.Context, questID string, clueID int) ([]Evidence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.quest_id, e.clue_id, e.author, e.body, e.created_at,
		        COALESCE(SUM(CASE WHEN v.vote = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN v.vote = -1 THEN 1 ELSE 0 END), 0)
		 FROM evidence e
		 LEFT JOIN evidence_votes v ON v.evidence_id = e.id
		 WHERE e.quest_id = ? AND e.clue_id = ?
		 GROUP BY e.id
		 ORDER BY e.created_at DESC`,
		questID, clueID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing evidence: %w", err)
	}
	defer rows.Close()

	var result []Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(&e.ID, &e.QuestID, &e.ClueID, &e.Author, &e.Body, &e.CreatedAt,
			&e.Upvotes, &e.Downvotes); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		e.Status = DeriveStatus(e.Upvotes, e.Downvotes, s.thresholds)
		result = append(result, e)
	}
	return result, rows.Err()
}

// Get returns one piece of evidence with its tally and derived status.
func (s *Store) Get(ctx context.Context, id string) (*Evidence, error) {
	e := &Evidence{}
	err := s.db.QueryRowContext(ctx,
		`SELECT e.id, e.quest_id, e.clue_id, e.author, e.body, e.created_at,
		        COALESCE(SUM(CASE WHEN v.vote = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN v.vote = -1 THEN 1 ELSE 0 END), 0)
		 FROM evidence e
		 LEFT JOIN evidence_votes v ON v.evidence_id = e.id
		 WHERE e.id = ?
		 GROUP BY e.id`, id,
	).Scan(&e.ID, &e.QuestID, &e.ClueID, &e.Author, &e.Body, &e.CreatedAt,
		&e.Upvotes, &e.Downvotes)
	if err != nil {
		return nil, fmt.Errorf("getting evidence: %w", err)
	}
	e.Status = DeriveStatus(e.Upvotes, e.Downvotes, s.thresholds)
	return e, nil
}
