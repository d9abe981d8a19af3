package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/level"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/server"
)

var (
	playSlot      int
	playResume    bool
	playMaxFrames int
	playAutopilot bool
)

var playCmd = &cobra.Command{
	Use:   "play [level.xml]",
	Short: "Host a level in a real-time frame loop with autosave",
	Long: `play runs a level at the configured frame rate until it ends or the process
receives SIGINT/SIGTERM. An unfinished level is saved to --slot on shutdown.
With --resume the level is restored from --slot instead of a document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playSlot, "slot", 0, "save slot used for autosave and --resume")
	playCmd.Flags().BoolVar(&playResume, "resume", false, "restore the level from --slot")
	playCmd.Flags().IntVar(&playMaxFrames, "max-frames", 0, "stop after that many frames; 0 runs until the level ends")
	playCmd.Flags().BoolVar(&playAutopilot, "autopilot", true, "let the AI drive the player camp")
}

func runPlay(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.checkSlot(playSlot); err != nil {
		return err
	}
	if !playResume && len(args) == 0 {
		return cmd.Usage()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	var l *level.Level
	if playResume {
		l, err = a.loadSlot(ctx, st, playSlot)
	} else {
		l, err = a.openLevel(args[0], levelIndex(args[0], 0))
	}
	if err != nil {
		return err
	}
	if l.Phase() == level.PhaseInitialization {
		if err := l.StartGame(); err != nil {
			return err
		}
	}
	l.SetAutopilot(playAutopilot)

	loop := server.NewFrameLoop(l, server.LoopConfig{
		Interval:  a.cfg.Engine.FrameInterval(),
		MaxFrames: playMaxFrames,
		Done:      func() bool { return l.Phase().Terminal() },
	}, a.logger)

	lc := server.NewLifecycle(a.logger)
	lc.Add("frame-loop", loop)
	lc.Add("dialogs", dialogPump(l, loop, a.cfg.Engine.FrameInterval()))
	lc.OnShutdown("autosave", func(ctx context.Context) error {
		var err error
		loop.Do(func() {
			if l.Phase().Terminal() {
				a.logger.Info("level over, nothing to save", zap.String("phase", string(l.Phase())))
				return
			}
			err = save.SaveSlot(ctx, st, playSlot, l, time.Now())
		})
		return err
	})

	if err := lc.Run(ctx); err != nil {
		return err
	}
	loop.Do(func() { report(cmd.OutOrStdout(), l) })
	return nil
}

// dialogPump dismisses queued dialogs so a headless run never waits on them.
func dialogPump(l *level.Level, loop *server.FrameLoop, every time.Duration) server.Service {
	stop := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			t := time.NewTicker(every)
			defer t.Stop()
			for {
				select {
				case <-stop:
					return nil
				case <-t.C:
					loop.Do(func() {
						if d, ok := l.PendingDialog(); ok {
							l.Logger().Info("dialog", zap.String("title", d.Title), zap.Strings("lines", d.Lines))
							l.CloseDialog()
						}
					})
				}
			}
		},
		StopFn: func() { close(stop) },
	}
}
