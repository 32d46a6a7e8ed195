package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VladimirLichonos/tess-two/pkg/templates"
)

// NewTemplatesCmd creates the templates command group
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect saved adapted template stores",
	}
	cmd.AddCommand(newTemplatesInspectCmd())
	return cmd
}

func newTemplatesInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a saved adapted template store",
		Long: `Load a template store saved at a document boundary and print a
per-class summary of its configs and prototypes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer f.Close()

			store, err := templates.Load(f)
			if err != nil {
				return fmt.Errorf("failed to load store: %w", err)
			}

			fmt.Printf("classes: %d  non-empty: %d  with-permanent: %d\n",
				store.NumClasses(), store.NumNonEmptyClasses, store.NumPermClasses)

			for id := 0; id < store.NumClasses(); id++ {
				class, err := store.Class(id)
				if err != nil || class.Empty() {
					continue
				}
				fmt.Printf("\nclass %d: %d configs, %d temp protos, %d perm protos, max times seen %d\n",
					id, class.NumConfigs(), class.NumTempProtos(),
					class.PermProtos().Count(), class.MaxTimesSeen)
				for c := 0; c < class.NumConfigs(); c++ {
					switch cfg := class.Config(c).(type) {
					case *templates.TempConfig:
						fmt.Printf("  config %d: temporary  font=%d times_seen=%d protos=%d\n",
							c, cfg.Font, cfg.TimesSeen, cfg.Protos.Count())
					case *templates.PermConfig:
						fmt.Printf("  config %d: permanent  font=%d ambigs=%v\n",
							c, cfg.Font, cfg.Ambigs)
					}
				}
			}
			return nil
		},
	}
}
