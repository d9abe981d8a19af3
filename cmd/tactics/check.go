package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <level.xml>...",
	Short: "Load and validate the catalog and level documents",
	Long: `check loads the YAML catalog, then builds every given level document with
its scripts. It reports the first problem of each level and fails if any level
is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	failed := 0
	for i, path := range args {
		l, err := a.openLevel(path, levelIndex(path, i))
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s: %q %dx%d, %d players, %d allies, %d foes, %d missions\n",
			path, l.Name, l.Map.Size.Width, l.Map.Size.Height,
			len(l.Players), len(l.Allies), len(l.Foes), len(l.Missions.All()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levels invalid", failed, len(args))
	}
	return nil
}
