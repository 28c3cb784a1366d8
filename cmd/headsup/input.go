package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/josephklwork-hash/headsup/internal/game"
)

// command is one parsed line of player input
type command struct {
	kind   string // deal, action, show, quit, help
	action game.Action
}

const helpText = `commands:
  deal           start the next hand (host only)
  fold           fold
  check          check
  call           call
  bet <amount>   bet or raise to the given total
  show           reveal your mucked or folded hand
  quit           leave the match`

// parseCommand turns a line of player input into a command
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "deal", "next":
		return command{kind: "deal"}, nil
	case "fold":
		return command{kind: "action", action: game.Action{Kind: game.ActionFold}}, nil
	case "check":
		return command{kind: "action", action: game.Action{Kind: game.ActionCheck}}, nil
	case "call":
		return command{kind: "action", action: game.Action{Kind: game.ActionCall}}, nil
	case "bet", "raise":
		if len(fields) < 2 {
			return command{}, fmt.Errorf("%s needs an amount", fields[0])
		}
		amount, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || amount <= 0 {
			return command{}, fmt.Errorf("invalid amount %q", fields[1])
		}
		return command{kind: "action", action: game.Action{
			Kind: game.ActionBetRaise,
			To:   game.ChipsFromFloat(amount),
		}}, nil
	case "show":
		return command{kind: "show"}, nil
	case "quit", "exit":
		return command{kind: "quit"}, nil
	case "help", "?":
		return command{kind: "help"}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// readLines feeds stdin lines to a channel so the command loop can
// select on input and cancellation together. The channel closes on EOF.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
