package main

import (
	"fmt"

	"github.com/josephklwork-hash/headsup/internal/history"
)

// HistoryCmd prints recent hand results from a session database
type HistoryCmd struct {
	DB    string `kong:"required,help='Sqlite file written by host or solo'"`
	Limit int    `kong:"default='20',help='How many hands to show'"`
}

func (c *HistoryCmd) Run() error {
	store, err := history.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Results(c.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no hands recorded")
		return nil
	}

	for _, r := range records {
		board := r.Board
		if board == "" {
			board = "-"
		}
		fmt.Printf("%s  hand %-4d winner %-4s %-9s pot %-8s board %-15s stacks %s/%s\n",
			r.PlayedAt.Format("2006-01-02 15:04:05"),
			r.HandID, r.Winner, r.Reason, r.Pot, board, r.StackA, r.StackB)
	}
	return nil
}
