package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/engine"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMarkerStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

const browseHelp = "↑/↓ move  ⏎ collapse  p preset  a add  x delete  c copy  r reset  s save  q quit"

// browseCommand creates the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "browse [mindmap.json]",
		Short: "Explore and edit a mind map in the terminal",
		Long: `Open a mind map in an interactive tree browser.

Collapse and expand branches, cycle layout presets, add, delete and
duplicate nodes. Positions of nodes that stay visible never move when a
branch is collapsed. Press s to save the document (with positions) back
to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], preset)
		},
	}
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "initial preset name")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input, preset string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := mindmap.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load mind map: %w", err)
	}

	// Warnings are collected by the model and logged after the alt screen
	// is gone.
	e, err := engine.New(engine.Options{
		Presets:  cfg.Presets,
		NodeSize: cfg.NodeSize,
	})
	if err != nil {
		return err
	}
	doc.Restore(e)
	if preset != "" {
		if err := selectPresetByName(e, preset); err != nil {
			return err
		}
	}

	id := doc.ID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	m := newBrowseModel(e, func(en *engine.Engine) error {
		return mindmap.WriteDocumentFile(mindmap.Capture(id, doc.Title, en), input)
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if bm, ok := final.(browseModel); ok {
		logWarnings(c.Logger, bm.warnings)
		if bm.saved {
			printSuccess("Saved")
			printFile(input)
		}
	}
	return nil
}

func selectPresetByName(e *engine.Engine, name string) error {
	for i, p := range e.Presets() {
		if p.Name == name {
			e.SelectPreset(i)
			return nil
		}
	}
	return fmt.Errorf("unknown preset %q", name)
}

// =============================================================================
// browseModel - Interactive tree browser
// =============================================================================

// browseRow is one visible node in display order.
type browseRow struct {
	node  engine.RenderNode
	depth int
}

// browseModel is the bubbletea model driving an engine.
type browseModel struct {
	engine *engine.Engine
	save   func(*engine.Engine) error

	snap   engine.Snapshot
	rows   []browseRow
	cursor int
	offset int
	height int

	status   string
	warnings []string
	saved    bool
}

func newBrowseModel(e *engine.Engine, save func(*engine.Engine) error) browseModel {
	m := browseModel{engine: e, save: save, height: 20}
	m.refresh("")
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-7, 5)
		m.scroll()
	}
	return m, nil
}

func (m browseModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.status = ""
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.scroll()
		return m, nil
	case "p":
		m.engine.CyclePreset()
		m.refresh(m.selected())
		m.status = "preset " + m.snap.Preset.Name
	case "r":
		m.engine.ResetView()
		m.refresh(m.selected())
		m.status = "view reset"
	case "s":
		if m.save == nil {
			return m, nil
		}
		if err := m.save(m.engine); err != nil {
			m.status = "save failed: " + err.Error()
			return m, nil
		}
		m.saved = true
		m.status = "saved"
	case "enter", " ", "a", "x", "c":
		id := m.selected()
		if id == "" {
			if key == "a" {
				created, _ := m.engine.AddNode("")
				m.refresh(created)
			}
			return m, nil
		}
		m.apply(key, id)
	}
	return m, nil
}

// apply runs a node command on id.
func (m *browseModel) apply(key, id string) {
	var (
		focus = id
		err   error
	)
	switch key {
	case "enter", " ":
		err = m.engine.ToggleCollapse(id)
	case "a":
		focus, err = m.engine.AddNode(id)
	case "x":
		n, _ := m.snap.Node(id)
		err = m.engine.DeleteNode(id)
		focus = n.ParentID
	case "c":
		focus, err = m.engine.DuplicateNode(id)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.refresh(focus)
}

// refresh reloads the snapshot and keeps the cursor on focus if visible.
func (m *browseModel) refresh(focus string) {
	m.snap = m.engine.Snapshot()
	for _, w := range m.snap.Warnings {
		if !slices.Contains(m.warnings, w) {
			m.warnings = append(m.warnings, w)
		}
	}
	m.rows = visibleRows(m.snap)
	for i, r := range m.rows {
		if r.node.ID == focus {
			m.cursor = i
			m.scroll()
			return
		}
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.scroll()
}

func (m browseModel) selected() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].node.ID
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// visibleRows orders the visible nodes depth-first, children in canonical
// order.
func visibleRows(snap engine.Snapshot) []browseRow {
	known := make(map[string]bool, len(snap.Nodes))
	for _, n := range snap.Nodes {
		known[n.ID] = true
	}
	children := make(map[string][]engine.RenderNode)
	var roots []engine.RenderNode
	for _, n := range snap.Nodes {
		if n.Hidden {
			continue
		}
		if n.ParentID == "" || !known[n.ParentID] {
			roots = append(roots, n)
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	rows := make([]browseRow, 0, len(snap.Nodes))
	seen := make(map[string]bool, len(snap.Nodes))
	var walk func(n engine.RenderNode, depth int)
	walk = func(n engine.RenderNode, depth int) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		rows = append(rows, browseRow{node: n, depth: depth})
		for _, c := range children[n.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return rows
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mind Map"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s (%s)", m.snap.Preset.Name, m.snap.Preset.Direction)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(browseHelp))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := " "
		switch {
		case r.node.Data.ChildrenCollapsed:
			marker = "+"
		case r.node.Data.HasChildren:
			marker = "−"
		}

		title := r.node.Data.Title
		if title == "" {
			title = r.node.ID
		}
		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", r.depth), listMarkerStyle.Render(marker), title)
		pos := listDimStyle.Render("  " + r.node.Position.String())

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(pos)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statsLine(pipeline.StatsOf(m.snap), m.snap.Preset, false))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(StyleSuccess.Render(m.status))
	}
	return b.String()
}
