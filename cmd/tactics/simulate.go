package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
)

var simulateMaxFrames int

var simulateCmd = &cobra.Command{
	Use:   "simulate <level.xml>",
	Short: "Play a level headless with the AI driving every camp",
	Long: `simulate builds the level, starts it with the players on their document
positions and lets the AI play every camp until the level ends or the frame
budget runs out. Use --seed for a reproducible run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateMaxFrames, "max-frames", 100_000, "frame budget of the run")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if seed == 0 {
		seed = 1
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	l, err := a.openLevel(args[0], levelIndex(args[0], 0))
	if err != nil {
		return err
	}
	frames, err := simulate(l, simulateMaxFrames)
	if err != nil {
		return err
	}
	a.logger.Info("simulation finished",
		zap.String("phase", string(l.Phase())),
		zap.Int("turn", l.Turn()),
		zap.Int("frames", frames),
	)
	report(cmd.OutOrStdout(), l)
	if !l.Phase().Terminal() {
		return fmt.Errorf("level still running after %d frames", frames)
	}
	return nil
}

// simulate starts l under autopilot and updates it until a terminal phase or
// maxFrames. It returns the number of frames computed.
func simulate(l *level.Level, maxFrames int) (int, error) {
	if l.Phase() == level.PhaseInitialization {
		if err := l.StartGame(); err != nil {
			return 0, err
		}
	}
	l.SetAutopilot(true)
	frames := 0
	for frames < maxFrames && !l.Phase().Terminal() {
		for _, ok := l.PendingDialog(); ok; _, ok = l.PendingDialog() {
			l.CloseDialog()
		}
		l.Update()
		frames++
	}
	return frames, nil
}

// report prints the outcome of a level.
func report(w io.Writer, l *level.Level) {
	fmt.Fprintf(w, "Level %d %q: %s at turn %d\n", l.Index, l.Name, l.Phase(), l.Turn())
	fmt.Fprintln(w, "Players:")
	for _, p := range append(views(l.Players), views(l.Passed)...) {
		fmt.Fprintf(w, "  %-12s lvl %-2d hp %3d/%-3d gold %d%s\n", p.name, p.level, p.hp, p.hpMax, p.gold, p.note)
	}
	fmt.Fprintf(w, "Foes left: %d\n", len(l.Foes))
	fmt.Fprintln(w, "Missions:")
	for _, m := range l.Missions.All() {
		state := "open"
		switch {
		case m.Failed:
			state = "failed"
		case m.Ended:
			state = "done"
		}
		kind := "optional"
		if m.Main {
			kind = "main"
		}
		fmt.Fprintf(w, "  [%s] %-8s %s\n", state, kind, m.Description)
	}
	entries := l.Diary.Entries()
	if len(entries) > 10 {
		entries = entries[len(entries)-10:]
	}
	if len(entries) > 0 {
		fmt.Fprintln(w, "Diary:")
		for _, e := range entries {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
