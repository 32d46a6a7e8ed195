package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VladimirLichonos/tess-two/pkg/unicharset"
)

// NewCharsetCmd creates the charset command group
func NewCharsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charset",
		Short: "Inspect character-identity label tables",
	}
	cmd.AddCommand(newCharsetInspectCmd())
	return cmd
}

func newCharsetInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a label table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := unicharset.LoadFile(args[0])
			if err != nil {
				return err
			}

			var alpha, digit, fragment, disabled int
			for id := 1; id < set.Size(); id++ {
				switch {
				case set.IsAlpha(id):
					alpha++
				case set.IsDigit(id):
					digit++
				}
				if set.IsFragment(id) {
					fragment++
				}
				if !set.Enabled(id) {
					disabled++
				}
			}
			fmt.Printf("classes: %d (plus null)  alpha: %d  digit: %d  fragments: %d  disabled: %d\n",
				set.Size()-1, alpha, digit, fragment, disabled)
			return nil
		},
	}
}
