package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// sourcesCommand creates the sources command, a listing of the configured
// sources in merge precedence order.
func (c *CLI) sourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured sources in merge precedence order",
		Long: `List the configured sources in merge precedence order.

The first listed source wins attribute conflicts for devices reported by
more than one source. The status column shows whether the source payload
is currently readable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := c.loadConfig()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cfg.Sources))
			for i, s := range cfg.Sources {
				status := iconSuccess
				if _, err := os.Stat(s.Path); err != nil {
					status = iconError
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1), s.Vendor, s.Type, s.Path, status,
				})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("#", "Vendor", "Type", "Path", "OK").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 1 {
						return StyleHighlight
					}
					return lipgloss.NewStyle().Foreground(colorWhite)
				})

			fmt.Println(t.Render())
			printDetail("Config: %s", path)
			return nil
		},
	}
}
