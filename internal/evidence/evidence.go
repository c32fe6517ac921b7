// Package evidence manages community evidence attached to quest clues
// and derives a consensus status from up/down votes.
package evidence

import "time"

// Status is the derived consensus state of one piece of evidence.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusDisputed  Status = "disputed"
	StatusPending   Status = "pending"
)

// Evidence is one community submission for a quest clue, with its vote
// tally and derived status.
type Evidence struct {
	ID        string    `json:"id"`
	QuestID   string    `json:"questId"`
	ClueID    int       `json:"clueId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Thresholds holds the vote counts at which evidence flips out of
// pending.
type Thresholds struct {
	ConfirmVotes int
	DisputeVotes int
}

// DeriveStatus computes the consensus status from a vote tally. It is a
// pure function over counts; callers re-derive on every read rather
// than storing the status.
func DeriveStatus(upvotes, downvotes int, t Thresholds) Status {
	switch {
	case upvotes >= t.ConfirmVotes && upvotes > downvotes:
		return StatusConfirmed
	case downvotes >= t.DisputeVotes && downvotes >= upvotes:
		return StatusDisputed
	default:
		return StatusPending
	}
}
