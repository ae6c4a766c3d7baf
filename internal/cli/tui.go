package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// catalogRow is one template of a catalog listing with its category.
type catalogRow struct {
	Category string
	Template *block.Template
	Version  string
}

// catalogRows flattens cat in category order.
func catalogRows(cat *catalog.Catalog) []catalogRow {
	var rows []catalogRow
	for _, category := range cat.Categories() {
		for _, id := range category.IDs {
			t, err := cat.Lookup(id)
			if err != nil {
				continue
			}
			version := "-"
			if info, ok := cat.Version(id); ok {
				version = fmt.Sprintf("v%d", info.Version)
			}
			rows = append(rows, catalogRow{Category: category.Name, Template: t, Version: version})
		}
	}
	return rows
}

// catalogTable renders rows[offset:end] as a table. The row at cursor is
// highlighted; pass -1 for none.
func catalogTable(rows []catalogRow, lang string, offset, end, cursor int) string {
	cells := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		r := rows[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		cells = append(cells, []string{
			mark,
			r.Category,
			r.Template.ID,
			r.Template.Kind.String(),
			r.Template.Variant.Sockets().String(),
			fmt.Sprint(r.Template.SlotCount(lang)),
			r.Version,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "ID", "Kind", "Sockets", "Slots", "Format").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := offset + row
			switch {
			case idx == cursor:
				return listSelectedStyle
			case col == 1 || col == 6:
				return listDimStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// CatalogModel - Interactive catalog browser
// =============================================================================

// CatalogModel is the bubbletea model for browsing a catalog.
type CatalogModel struct {
	Rows     []catalogRow
	Lang     string
	Cursor   int
	Offset   int
	Height   int
	Selected *block.Template
}

// NewCatalogModel creates a browser over cat showing text in lang.
func NewCatalogModel(cat *catalog.Catalog, lang string) CatalogModel {
	return CatalogModel{
		Rows:   catalogRows(cat),
		Lang:   lang,
		Height: 12,
	}
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			m.Selected = m.Rows[m.Cursor].Template
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the title and the detail pane.
		m.Height = max(5, msg.Height-16)
	}
	return m, nil
}

func (m CatalogModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Block Catalog"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print source  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no templates"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(catalogTable(m.Rows, m.Lang, m.Offset, end, m.Cursor))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Rows[m.Cursor].Template))
	return b.String()
}

// detail describes t below the table.
func (m CatalogModel) detail(t *block.Template) string {
	key := lipgloss.NewStyle().Foreground(colorGray).Width(8)
	lines := []string{
		key.Render("Text") + " " + StyleValue.Render(t.Text(m.Lang)),
		key.Render("Color") + " " + swatch(t.Color),
		key.Render("Slots") + " " + StyleValue.Render(slotList(t, m.Lang)),
	}
	if t.Code != "" {
		lines = append(lines, key.Render("Code")+" "+StyleDim.Render(t.Code))
	}
	return strings.Join(lines, "\n")
}
