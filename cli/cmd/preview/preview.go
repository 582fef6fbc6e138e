// Package preview implements an interactive template editor with a live
// rendered preview pane.
package preview

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stitchtext/stitch/cli/cmd"
	"github.com/stitchtext/stitch/log"
	"github.com/stitchtext/stitch/tmpl"
)

// editorName identifies the editor buffer in diagnostics and breadcrumbs.
const editorName = "preview"

// Cmd edits a template with a live rendered preview.
type Cmd struct {
	Source string `arg:"" optional:"" help:"Template file preloaded into the editor" type:"existingfile"`

	Item      string            `help:"Content item file"                   short:"i" type:"existingfile"`
	Templates string            `default:"." help:"Directory searched for partials" short:"t" type:"existingdir"`
	Meta      map[string]string `help:"Additional string fields (key=value)" short:"m"`
}

// Run executes the preview command.
func (c *Cmd) Run(ctx context.Context) error {
	var source string

	if c.Source != "" {
		data, err := os.ReadFile(c.Source)
		if err != nil {
			return err
		}

		source = string(data)
	}

	item := tmpl.MakeItem(editorName, "")

	var meta map[string]any

	if c.Item != "" {
		var err error

		item, meta, err = cmd.LoadItem(c.Item)
		if err != nil {
			return err
		}
	}

	lookup, err := cmd.BuildContext(meta, c.Meta, nil)
	if err != nil {
		return err
	}

	engine := tmpl.NewEngine(
		tmpl.WithStore[string](tmpl.NewDirStore(c.Templates)),
		tmpl.WithLogger[string](log.Default()),
	)

	log.DebugContext(ctx, "preview start",
		slog.String("source", c.Source),
		slog.String("item", item.ID),
	)

	p := tea.NewProgram(
		newModel(source, engine, lookup, item),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	_, err = p.Run()

	return err
}

// Styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)
	focusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("6"))
	blurredPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8"))
	okStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Padding(0, 1)
	errStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)
)

const hint = "Tab: switch pane • Esc/Ctrl+C: quit"

// model is the Bubble Tea model for the preview editor.
type model struct {
	editor  textarea.Model
	pane    viewport.Model
	engine  *tmpl.Engine[string]
	lookup  tmpl.Context[string]
	item    tmpl.Item[string]
	status  string
	failed  bool
	ready   bool
	editing bool
}

func newModel(
	source string,
	engine *tmpl.Engine[string],
	lookup tmpl.Context[string],
	item tmpl.Item[string],
) model {
	ed := textarea.New()
	ed.Placeholder = "$body$"
	ed.SetValue(source)
	ed.Focus()

	m := model{
		editor:  ed,
		engine:  engine,
		lookup:  lookup,
		item:    item,
		editing: true,
	}
	m.refresh()

	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab:
			m.editing = !m.editing
			if m.editing {
				return m, m.editor.Focus()
			}

			m.editor.Blur()

			return m, nil
		}
	}

	var cmds []tea.Cmd

	if m.editing {
		var cmd tea.Cmd

		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
		m.refresh()
	} else {
		var cmd tea.Cmd

		m.pane, cmd = m.pane.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}

	editor := blurredPaneStyle
	pane := focusedPaneStyle

	if m.editing {
		editor, pane = pane, editor
	}

	status := okStatusStyle
	if m.failed {
		status = errStatusStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("stitch preview"),
		lipgloss.JoinHorizontal(lipgloss.Top,
			editor.Render(m.editor.View()),
			pane.Render(m.pane.View()),
		),
		status.Render(m.status),
		hintStyle.Render(hint),
	)
}

// layout resizes both panes to split the terminal evenly.
func (m *model) layout(width, height int) {
	const chrome = 5 // title, status, hint, pane borders

	paneWidth := max(width/2-2, 10)
	paneHeight := max(height-chrome, 3)

	m.editor.SetWidth(paneWidth)
	m.editor.SetHeight(paneHeight)

	if m.ready {
		m.pane.Width = paneWidth
		m.pane.Height = paneHeight
	} else {
		m.pane = viewport.New(paneWidth, paneHeight)
		m.ready = true
	}

	m.refresh()
}

// refresh re-renders the editor buffer into the preview pane.
func (m *model) refresh() {
	t, err := tmpl.Parse(editorName, m.editor.Value())
	if err != nil {
		m.fail(err)

		return
	}

	out, err := m.engine.Render(t, m.lookup, m.item)
	if err != nil {
		m.fail(err)

		return
	}

	m.failed = false
	m.status = "ok"
	m.pane.SetContent(out)
}

// fail reports a parse or render error in the status line, keeping the last
// good preview content visible.
func (m *model) fail(err error) {
	m.failed = true
	m.status = firstLine(err.Error())
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return line
}
