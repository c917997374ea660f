package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/miniql/internal/tui"
)

var (
	flagTuiNoMouse        bool
	flagTuiRefreshSeconds int
	flagTuiTable          string
)

func init() {
	tuiCmd.Flags().BoolVar(&flagTuiNoMouse, "no-mouse", false, "disable mouse support")
	tuiCmd.Flags().IntVar(&flagTuiRefreshSeconds, "refresh-interval", 5, "seconds between automatic grid refreshes (0 disables)")
	tuiCmd.Flags().StringVar(&flagTuiTable, "table", "", "open with this table preselected")

	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse catalog tables in a terminal UI",
	Long: `Launch the Bubble Tea table browser.

Key bindings:
  up/down (j/k)  Switch between tables
  q              Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		opts := tui.Options{
			InitialTable:    flagTuiTable,
			RefreshInterval: flagTuiRefreshSeconds,
			DisableMouse:    flagTuiNoMouse,
		}
		if err := tui.Run(eng, opts); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	},
}
