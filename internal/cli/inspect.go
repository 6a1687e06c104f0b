package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/netloom/pkg/io"
	"github.com/matzehuels/netloom/pkg/topology"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command, an interactive browser over a
// topology snapshot.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [snapshot.json]",
		Short: "Browse a topology snapshot interactively",
		Long: `Browse a topology snapshot interactively.

Shows the device list with a detail pane for the highlighted device,
including its attributes and every link it participates in.

Keys: up/down or j/k to navigate, q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if topo.Empty() {
				printInfo("Snapshot has no devices")
				return nil
			}

			model := NewNodeListModel(topo)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// NodeListModel - Interactive Device Browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing topology devices.
type NodeListModel struct {
	Topology *topology.Topology
	Cursor   int
	Height   int
	Offset   int
}

// NewNodeListModel creates a browser over the topology's device list.
// Devices keep their merge order (source precedence order).
func NewNodeListModel(topo *topology.Topology) NodeListModel {
	return NodeListModel{
		Topology: topo,
		Height:   15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Topology.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14 // leave room for header and detail pane
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Topology Devices"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Topology.Nodes) {
		end = len(m.Topology.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := &m.Topology.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		ip := n.IP
		if ip == "" {
			ip = "—"
		}
		status := n.Status
		if status == "" {
			status = "—"
		}

		rows = append(rows, []string{cursor, n.DisplayLabel(), n.Kind, ip, string(n.Vendor), status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Device", "Kind", "IP", "Source", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Topology.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(m.detailView())

	return b.String()
}

// detailView renders the detail pane for the highlighted device.
func (m NodeListModel) detailView() string {
	n := &m.Topology.Nodes[m.Cursor]
	var b strings.Builder

	b.WriteString(StyleHighlight.Render(n.DisplayLabel()))
	b.WriteString("\n")

	pairs := []struct{ key, value string }{
		{"id", n.ID},
		{"kind", n.Kind},
		{"model", n.Model},
		{"serial", n.Serial},
		{"mac", n.MAC},
		{"ip", n.IP},
		{"status", n.Status},
		{"tags", strings.Join(n.Tags, ", ")},
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			listDimStyle.Render(fmt.Sprintf("%-7s", p.key)),
			StyleValue.Render(p.value)))
	}

	links := m.nodeLinks(n.ID)
	if len(links) == 0 {
		b.WriteString(listDimStyle.Render("  no links"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d link(s)", len(links))))
	b.WriteString("\n")
	for _, l := range links {
		b.WriteString("  " + l + "\n")
	}
	return b.String()
}

// nodeLinks describes every edge touching the node, pointing away from it.
func (m NodeListModel) nodeLinks(id string) []string {
	var out []string
	for _, e := range m.Topology.Edges {
		var peer string
		switch id {
		case e.From:
			peer = e.To
		case e.To:
			peer = e.From
		default:
			continue
		}

		label := peer
		if p, ok := m.Topology.Node(peer); ok {
			label = p.DisplayLabel()
		}
		line := fmt.Sprintf("%s %s", iconArrow, label)
		if e.Type != "" {
			line += " " + listDimStyle.Render("("+e.Type+")")
		}
		out = append(out, line)
	}
	return out
}
