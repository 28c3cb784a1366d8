// Package history persists settled hands to a local sqlite database so a
// session can be reviewed after the fact.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/game"
)

// Store records settled hands
type Store struct {
	db *sql.DB
}

// HandRecord is one settled hand as stored
type HandRecord struct {
	Session  int64
	HandID   int64
	Dealer   game.Seat
	Winner   game.Winner
	Reason   game.EndReason
	Pot      game.Chips
	Board    string
	HoleA    string
	HoleB    string
	StackA   game.Chips
	StackB   game.Chips
	PlayedAt time.Time
}

// Open opens (or creates) the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS hands (
			session INTEGER NOT NULL,
			hand_id INTEGER NOT NULL,
			dealer INTEGER NOT NULL,
			winner TEXT NOT NULL,
			reason TEXT NOT NULL,
			pot INTEGER NOT NULL,
			board TEXT NOT NULL,
			hole_a TEXT NOT NULL,
			hole_b TEXT NOT NULL,
			stack_a INTEGER NOT NULL,
			stack_b INTEGER NOT NULL,
			played_at TIMESTAMP NOT NULL,
			PRIMARY KEY (session, hand_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// RecordHand stores one settled hand. Recording the same hand twice
// replaces the row, so a retried conclude is harmless.
func (s *Store) RecordHand(h *game.Hand) error {
	if h.Result.Status != game.StatusEnded {
		return fmt.Errorf("hand %d is not settled", h.ID)
	}

	codes := make([]string, 0, len(h.Board()))
	for _, c := range h.Board() {
		codes = append(codes, c.Code())
	}
	holeA, holeB := h.Deal.Hole(0), h.Deal.Hole(1)

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO hands
			(session, hand_id, dealer, winner, reason, pot, board, hole_a, hole_b, stack_a, stack_b, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Session, h.ID, int(h.Dealer), string(h.Result.Winner), string(h.Result.Reason),
		int64(h.Result.Pot), strings.Join(codes, " "),
		holeA[0].Code()+" "+holeA[1].Code(), holeB[0].Code()+" "+holeB[1].Code(),
		int64(h.Ledger.Stacks[game.SeatA]), int64(h.Ledger.Stacks[game.SeatB]),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record hand: %w", err)
	}
	return nil
}

// Results returns up to limit most recent hands, newest first
func (s *Store) Results(limit int) ([]HandRecord, error) {
	rows, err := s.db.Query(`
		SELECT session, hand_id, dealer, winner, reason, pot, board, hole_a, hole_b, stack_a, stack_b, played_at
		FROM hands
		ORDER BY played_at DESC, hand_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query hands: %w", err)
	}
	defer rows.Close()

	var records []HandRecord
	for rows.Next() {
		var r HandRecord
		var dealer int
		var winner, reason string
		if err := rows.Scan(&r.Session, &r.HandID, &dealer, &winner, &reason,
			&r.Pot, &r.Board, &r.HoleA, &r.HoleB, &r.StackA, &r.StackB, &r.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hand: %w", err)
		}
		r.Dealer = game.Seat(dealer)
		r.Winner = game.Winner(winner)
		r.Reason = game.EndReason(reason)
		records = append(records, r)
	}
	return records, rows.Err()
}

// BoardCards parses a record's board back into cards
func (r HandRecord) BoardCards() ([]deck.Card, error) {
	if r.Board == "" {
		return nil, nil
	}
	parts := strings.Fields(r.Board)
	cards := make([]deck.Card, 0, len(parts))
	for _, p := range parts {
		c, err := deck.ParseCard(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
