package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lk16/mines/internal/api"
	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/models"
)

const usage = `commands:
  o <x> <y>  open the cell in row x, column y
  f <x> <y>  toggle the flag in row x, column y
  r          restart
  q          quit`

var errQuit = errors.New("quit")

type player struct {
	client *api.Client
	state  models.GameState
}

func main() {
	config.SetLogLevel()

	cfg := config.LoadPlayClientConfig()
	client := api.NewClient(cfg)

	ctx := context.Background()

	state, err := client.NewGame(ctx)
	if err != nil {
		slog.Error("Failed to start game", "error", err)
		os.Exit(1)
	}

	p := &player{client: client, state: state}

	fmt.Println(usage)
	fmt.Println(render(p.state))

	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		err = p.handle(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(render(p.state))
	}

	if err = client.DeleteGame(ctx, p.state.ID); err != nil {
		slog.Warn("Failed to delete game", "error", err)
	}
}

func (p *player) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errors.New(usage)
	}

	switch fields[0] {
	case "q":
		return errQuit
	case "r":
		state, err := p.client.Restart(ctx, p.state.ID)
		if err != nil {
			return err
		}
		p.state = state
		return nil
	case "o", "f":
		if len(fields) != 3 {
			return errors.New(usage)
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid x: %w", err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid y: %w", err)
		}
		return p.move(ctx, fields[0], x, y)
	default:
		return errors.New(usage)
	}
}

func (p *player) move(ctx context.Context, kind string, x, y int) error {
	if kind == "f" {
		resp, err := p.client.ToggleFlag(ctx, p.state.ID, x, y)
		if err != nil {
			return err
		}
		p.state = resp.Game
		return nil
	}

	resp, err := p.client.Open(ctx, p.state.ID, x, y)
	if err != nil {
		return err
	}
	p.state = resp.Game
	if resp.Mine {
		fmt.Println("Boom!")
	}
	return nil
}

// render draws the board from the cell codes, one row per line.
func render(state models.GameState) string {
	var builder strings.Builder

	for i, code := range state.Cells {
		if i > 0 && i%state.Width == 0 {
			builder.WriteByte('\n')
		}

		cell, err := minesweeper.CellFromCode(code)
		if err != nil {
			builder.WriteByte('?')
			continue
		}

		builder.WriteRune(cell.PlayerRune())
	}

	fmt.Fprintf(&builder, "\nstatus: %s, moves: %d", state.Status, state.Moves)
	return builder.String()
}
