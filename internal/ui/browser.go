package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BrowserSelectedMsg reports the chain the user picked. An empty Path
// selects the built-in demo.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg reports that the user left the picker.
type BrowserCancelledMsg struct{}

type chainItem struct {
	name string
	ext  string
}

func (i chainItem) Title() string       { return i.name }
func (i chainItem) Description() string { return i.ext }
func (i chainItem) FilterValue() string { return i.name }

type demoItem struct{}

func (i demoItem) Title() string       { return "Built-in demo" }
func (i demoItem) Description() string { return "sample route over a small grid" }
func (i demoItem) FilterValue() string { return "demo" }

type pathItem struct{}

func (i pathItem) Title() string       { return "Open path..." }
func (i pathItem) Description() string { return "type the path of a chain file" }
func (i pathItem) FilterValue() string { return "path" }

// IsChainFile reports whether name looks like a chain file.
func IsChainFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// BrowserModel is the Bubbletea model for the chain picker.
type BrowserModel struct {
	list     list.Model
	input    textinput.Model
	pathMode bool
	err      error
}

// NewBrowser creates a picker listing chain files in the current directory.
func NewBrowser() BrowserModel {
	entries, err := os.ReadDir(".")
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := []list.Item{demoItem{}, pathItem{}}
	for _, e := range entries {
		if e.IsDir() || !IsChainFile(e.Name()) {
			continue
		}
		ext := filepath.Ext(e.Name())
		items = append(items, chainItem{name: strings.TrimSuffix(e.Name(), ext), ext: ext})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "snkscrub"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "route.yaml"
	ti.CharLimit = 1024
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("snkscrub")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case demoItem:
				return m, selected("")
			case pathItem:
				m.pathMode = true
				return m, tea.Batch(m.input.Focus(), tea.SetWindowTitle("snkscrub: open path"))
			case chainItem:
				return m, selected(item.name + item.ext)
			}
		case "q", "esc", "ctrl+c":
			return m, cancelled()
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path != "" {
				return m, selected(path)
			}
		case "esc":
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("snkscrub")
		case "ctrl+c":
			return m, cancelled()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("snkscrub") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Chain file:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}

func selected(path string) tea.Cmd {
	return func() tea.Msg { return BrowserSelectedMsg{Path: path} }
}

func cancelled() tea.Cmd {
	return func() tea.Msg { return BrowserCancelledMsg{} }
}
