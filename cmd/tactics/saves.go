package main

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/save"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect and delete save slots",
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List occupied save slots",
	Args:  cobra.NoArgs,
	RunE:  runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Print the content of a save slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesShow,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Empty a save slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesDeleteCmd)
}

func runSavesList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	metas, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saves")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tLEVEL\tNAME\tPHASE\tTURN\tSAVED")
	for _, m := range metas {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\n", m.Slot, m.LevelIndex, m.LevelName, m.Phase, m.Turn, m.SavedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runSavesShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()
	slot, err := parseSlot(a, args[0])
	if err != nil {
		return err
	}
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	data, err := st.Get(cmd.Context(), slot)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}
	doc, err := save.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}
	describe(cmd, doc)
	return nil
}

func describe(cmd *cobra.Command, doc *save.Document) {
	out := cmd.OutOrStdout()
	s := doc.Level
	turn := "-"
	if s.Turn != nil {
		turn = strconv.Itoa(*s.Turn)
	}
	fmt.Fprintf(out, "Level %d %q (%dx%d) phase %s turn %s camp %s\n", s.Index, s.Name, s.Width, s.Height, s.Phase, turn, s.Camp)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIDE\tNAME\tPOS\tHP\tLEVEL")
	for _, p := range s.Entities.Players {
		fmt.Fprintf(tw, "player\t%s\t%d,%d\t%d/%d\t%d\n", p.Name, p.X, p.Y, p.HP, p.HPMax, p.Level)
	}
	for _, c := range s.Entities.Allies {
		fmt.Fprintf(tw, "ally\t%s\t%d,%d\t%d/%d\t%d\n", c.Name, c.X, c.Y, c.HP, c.HPMax, c.Level)
	}
	for _, f := range s.Entities.Foes {
		fmt.Fprintf(tw, "foe\t%s\t%d,%d\t%d/%d\t%d\n", f.Name, f.X, f.Y, f.HP, f.HPMax, f.Level)
	}
	_ = tw.Flush()
}

func runSavesDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()
	slot, err := parseSlot(a, args[0])
	if err != nil {
		return err
	}
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	if err := st.Delete(cmd.Context(), slot); err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "slot %d deleted\n", slot)
	return nil
}

func parseSlot(a *app, arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q", arg)
	}
	return slot, a.checkSlot(slot)
}
