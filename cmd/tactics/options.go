package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/config"
)

var (
	optMoveSpeed  string
	optScreenSize string
	optLanguage   string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show or change the user options document",
}

var optionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()
		o := a.options
		fmt.Fprintf(cmd.OutOrStdout(), "move_speed=%s (%d frames per tile) screen_size=%s language=%s\n",
			o.MoveSpeed, o.FramesPerTile(), o.ScreenSize, o.Language)
		return nil
	},
}

var optionsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change options and write the document",
	Args:  cobra.NoArgs,
	RunE:  runOptionsSet,
}

func init() {
	optionsSetCmd.Flags().StringVar(&optMoveSpeed, "move-speed", "", "slow, normal or fast")
	optionsSetCmd.Flags().StringVar(&optScreenSize, "screen-size", "", "window or full")
	optionsSetCmd.Flags().StringVar(&optLanguage, "language", "", "interface language code")
	optionsCmd.AddCommand(optionsShowCmd)
	optionsCmd.AddCommand(optionsSetCmd)
}

func runOptionsSet(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()
	o := applyOptions(a.options, optMoveSpeed, optScreenSize, optLanguage)
	if err := o.Validate(); err != nil {
		return err
	}
	if err := config.SaveOptions(a.cfg.Content.Options, o); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "options written to %s\n", a.cfg.Content.Options)
	return nil
}

// applyOptions overrides the fields of o given non-empty values.
func applyOptions(o config.Options, speed, screen, lang string) config.Options {
	if speed != "" {
		o.MoveSpeed = speed
	}
	if screen != "" {
		o.ScreenSize = screen
	}
	if lang != "" {
		o.Language = lang
	}
	return o
}
