package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dartscorer/internal/config"
	"dartscorer/internal/engine"
	"dartscorer/internal/game"
	"dartscorer/internal/players"
)

type playOptions struct {
	Game        string
	Players     []string
	Preset      string
	PresetsFile string
}

func newPlayCmd() *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Score a game at the terminal",
		Long: `Score a game from standard input, one entry per line:

  T20, D16, S5, 25, BULL, MISS   a dart
  hits N                         hit count for the whole turn
  undo                           take back the last entry
  rematch                        start the same game again
  quit                           leave`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVar(&o.Game, "game", string(game.X01), "game mode id (see 'dartscorer modes')")
	cmd.Flags().StringSliceVar(&o.Players, "players", []string{"Player 1"}, "player names")
	cmd.Flags().StringVar(&o.Preset, "preset", "", "named preset; overrides --game")
	cmd.Flags().StringVar(&o.PresetsFile, "presets-file", config.Load().PresetsFile, "YAML preset file")
	return cmd
}

func resolveGame(o playOptions) (game.GameID, game.Options, error) {
	if o.Preset == "" {
		return game.GameID(o.Game), game.Options{}, nil
	}
	presets, err := config.LoadPresets(o.PresetsFile)
	if err != nil {
		return "", game.Options{}, err
	}
	p, err := presets.Get(o.Preset)
	if err != nil {
		return "", game.Options{}, err
	}
	return p.Game, p.Options, nil
}

func runPlay(in io.Reader, out io.Writer, o playOptions) error {
	id, opts, err := resolveGame(o)
	if err != nil {
		return err
	}

	roster := players.NewStore()
	ids := make([]string, 0, len(o.Players))
	colors := make(map[string]string, len(o.Players))
	for _, name := range o.Players {
		p, err := roster.Add(name)
		if err != nil {
			return err
		}
		ids = append(ids, p.ID)
		colors[p.ID] = p.Color
	}
	entrants, err := roster.Entrants(ids)
	if err != nil {
		return err
	}

	// turn changes apply at once at the terminal
	cfg := engine.DefaultConfig()
	cfg.Debounce = 0
	cfg.TurnDelay = 0
	cfg.BustDelay = 0
	cfg.LegDelay = 0
	ctrl := engine.New(cfg, engine.WithLogger(log.Logger))
	if err := ctrl.StartSession(id, entrants, opts); err != nil {
		return err
	}
	renderBoard(out, ctrl.ActiveSession(), colors)

	sc := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, promptStyle.Render("> "))
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		cmd := strings.ToLower(line)
		switch {
		case line == "":
			continue
		case cmd == "quit" || cmd == "q":
			return nil
		case cmd == "undo" || cmd == "u":
			if !ctrl.Undo() {
				_, _ = fmt.Fprintln(out, mutedStyle.Render("nothing to undo"))
			}
		case cmd == "rematch":
			if err := ctrl.Rematch(); err != nil {
				return err
			}
		case strings.HasPrefix(cmd, "hits "):
			n, err := strconv.Atoi(strings.TrimSpace(cmd[len("hits "):]))
			if err != nil {
				_, _ = fmt.Fprintln(out, mutedStyle.Render("usage: hits N"))
				continue
			}
			renderStep(out, ctrl.Submit(game.HitsInput(n)))
		default:
			renderStep(out, ctrl.Submit(line))
		}

		s := ctrl.ActiveSession()
		renderBoard(out, s, colors)
		if s.Status == game.StatusOver {
			results, err := ctrl.Results()
			if err != nil {
				return err
			}
			win := game.WinMessage{Title: "Game over"}
			if winner := s.Player(s.Winner); winner != nil {
				win = ctrl.Strategy().WinMessage(s, winner, game.TurnResult{Action: game.ActionWinMatch})
			}
			renderResults(out, win, results)
		}
	}
	return sc.Err()
}
