package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arlojade/fat32recover/internal/store"
)

var (
	reviewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	reviewHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	reviewErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000")).
				Bold(true)

	reviewSavedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00FF00")).
				Bold(true)
)

func reviewCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively flag scan-result rows for restore",
		RunE: func(cmd *cobra.Command, args []string) error {
			csvStore := store.CSVStore{}
			records, err := csvStore.Load(storePath)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newReviewModel(records, storePath, csvStore), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&storePath, "store", defaultStorePath, "path to the scan-result store")
	return cmd
}

// recordItem adapts a store.Record (by index into the shared records
// slice, so toggling reflects straight back onto what gets saved) to
// bubbles/list.Item.
type recordItem struct {
	index   int
	records []store.Record
}

func (i recordItem) rec() store.Record { return i.records[i.index] }

func (i recordItem) Title() string {
	r := i.rec()
	mark := "[ ]"
	if r.WantsRestore() {
		mark = "[x]"
	}
	name := r.Filename
	if r.DeletedFlag != "" {
		name = r.DeletedFlag + name
	}
	return fmt.Sprintf("%s %s", mark, name)
}

func (i recordItem) Description() string {
	r := i.rec()
	return fmt.Sprintf("%s\\%s  %d bytes  %s", r.Path, r.Filename, r.Size, r.MTime)
}

func (i recordItem) FilterValue() string {
	return i.rec().Filename
}

type reviewModel struct {
	records []store.Record
	list    list.Model
	store   store.Store
	path    string
	saved   bool
	err     error
}

func newReviewModel(records []store.Record, path string, s store.Store) reviewModel {
	items := make([]list.Item, len(records))
	for i := range records {
		items[i] = recordItem{index: i, records: records}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scan results — space to toggle restore, s to save, q to quit"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return reviewModel{records: records, list: l, store: s, path: path}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case " ", "enter":
			if item, ok := m.list.SelectedItem().(recordItem); ok {
				rec := &m.records[item.index]
				if rec.WantsRestore() {
					rec.Restore = 0
				} else {
					rec.Restore = 1
				}
				m.saved = false
			}
			return m, nil

		case "s":
			if err := m.store.Save(m.path, m.records); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.saved = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m reviewModel) View() string {
	var out string
	out += reviewTitleStyle.Render(" fat32recover review ") + "\n\n"
	out += m.list.View()

	if m.err != nil {
		out += "\n" + reviewErrorStyle.Render("Error: "+m.err.Error())
	} else if m.saved {
		out += "\n" + reviewSavedStyle.Render("Saved "+m.path)
	}

	out += "\n" + reviewHelpStyle.Render("↑/↓ move • space toggle restore • s save • q quit")
	return out
}
