package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netloom/pkg/store"
)

// artifactsCommand creates the artifacts command, a listing of the artifact
// store contents.
func (c *CLI) artifactsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List artifacts in the configured store",
		Long: `List artifacts in the configured store.

Uses the [store] section of netloom.toml, or the working directory when no
config file is present. --dir inspects an arbitrary directory instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var st store.Store
			var err error
			if dir != "" {
				st, err = store.NewFileStore(dir)
			} else {
				var cfg, _, cfgErr = c.loadConfigOptional()
				if cfgErr != nil {
					return cfgErr
				}
				if cfg != nil {
					st, err = cfg.OpenStore(ctx)
				} else {
					st, err = store.NewFileStore(".")
				}
			}
			if err != nil {
				return err
			}
			defer st.Close()

			artifacts, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(artifacts) == 0 {
				printInfo("Store is empty")
				return nil
			}

			rows := make([][]string, 0, len(artifacts))
			for _, a := range artifacts {
				rows = append(rows, []string{
					a.Name, formatBytes(int(a.Size)), formatRelativeTime(a.Modified),
				})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Artifact", "Size", "Modified").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return lipgloss.NewStyle().Foreground(colorWhite)
					}
					return StyleDim
				})

			fmt.Println(t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "list a directory instead of the configured store")

	return cmd
}
