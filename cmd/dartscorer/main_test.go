package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dartscorer/internal/game"
)

func runWith(t *testing.T, input string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestModesCommand(t *testing.T) {
	out := runWith(t, "", "modes")
	for _, id := range []game.GameID{game.X01, game.Cricket, game.Bobs27, game.SingleTraining} {
		if !strings.Contains(out, string(id)) {
			t.Errorf("modes output missing %s", id)
		}
	}
}

func TestPlay_X01Session(t *testing.T) {
	out := runWith(t, "T20\nT20\nT20\nquit\n", "play", "--players", "Alice,Bob")
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Errorf("output missing players:\n%s", out)
	}
	if !strings.Contains(out, "321") {
		t.Errorf("output missing residual 321 after 180:\n%s", out)
	}
	if !strings.Contains(out, "180") {
		t.Errorf("output missing 180 overlay:\n%s", out)
	}
}

func TestPlay_UndoWithNothingToUndo(t *testing.T) {
	out := runWith(t, "undo\n", "play", "--game", "cricket")
	if !strings.Contains(out, "nothing to undo") {
		t.Errorf("output = %s", out)
	}
}

func TestPlay_HitsAndDropped(t *testing.T) {
	out := runWith(t, "hits 2\nhits x\n", "play")
	if !strings.Contains(out, "dropped: signal-not-accepted") {
		t.Errorf("x01 should drop hit signals:\n%s", out)
	}
	if !strings.Contains(out, "usage: hits N") {
		t.Errorf("missing usage hint:\n%s", out)
	}
}

func TestPlay_PresetFinishesGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	yaml := "quick:\n  game: x01\n  options:\n    startScore: 20\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	out := runWith(t, "S20\n", "play", "--preset", "quick", "--presets-file", path, "--players", "Solo")
	if !strings.Contains(out, "rematch") {
		t.Errorf("expected results with rematch hint:\n%s", out)
	}
}

func TestPlay_UnknownGame(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"play", "--game", "golf"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown game")
	}
}
