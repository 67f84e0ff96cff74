package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"esilcfg/internal/cfg"
	"esilcfg/internal/esilcfg/styles"
	"esilcfg/internal/render"
	"esilcfg/internal/ui/colorize"
)

type viewMode int

const (
	viewSummary viewMode = iota
	viewBlocks
	viewBlock
)

type blockItem struct {
	id    cfg.NodeID
	label string
	first cfg.Offset
	enter cfg.Enter
	expr  string
}

func (i blockItem) Title() string       { return fmt.Sprintf("%s  %s", i.first, i.label) }
func (i blockItem) Description() string { return "" }

func (i blockItem) FilterValue() string {
	return i.label + " " + i.first.String() + " " + i.expr
}

// Custom item delegate for the block list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(blockItem)
	if !ok {
		return
	}

	indicator := " "
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}
	enterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.EnterColor(i.enter)))

	preview, _, _ := strings.Cut(i.expr, "\n")
	if len(preview) > 60 {
		preview = preview[:57] + "..."
	}
	if c, err := colorize.ColorizeESIL(preview); err == nil {
		preview = c
	}

	fmt.Fprintf(w, " %s  %-16s %-7s %s",
		indicator,
		labelStyle.Render(i.label),
		enterStyle.Render(i.enter.String()),
		preview)
}

type model struct {
	ctx        context.Context
	conf       Config
	src        source
	summary    viewport.Model
	blocksList list.Model
	blockView  viewport.Model
	spinner    spinner.Model
	mode       viewMode
	res        *buildResult
	err        error
	current    cfg.NodeID
	loading    bool
	width      int
	height     int
}

// Message types
type graphBuiltMsg struct {
	res *buildResult
	err error
}

func buildGraphCmd(ctx context.Context, conf Config, src source) tea.Cmd {
	return func() tea.Msg {
		res, err := buildGraph(ctx, conf, src)
		return graphBuiltMsg{res: res, err: err}
	}
}

func NewModel(ctx context.Context, conf Config, src source) model {
	if ctx == nil {
		ctx = context.Background()
	}
	// findings are shown in the summary
	conf.Check = true

	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	blocksList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	blocksList.SetShowStatusBar(false)
	blocksList.SetFilteringEnabled(true)
	blocksList.Title = "Blocks"
	blocksList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	blocksList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	bvp := viewport.New()
	bvp.SetWidth(80)
	bvp.SetHeight(24)

	m := model{
		ctx:        ctx,
		conf:       conf,
		src:        src,
		summary:    vp,
		blocksList: blocksList,
		blockView:  bvp,
		spinner:    s,
		mode:       viewSummary,
		current:    cfg.None,
		loading:    true,
		width:      80,
		height:     24,
	}
	m.updateSummary()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		buildGraphCmd(m.ctx, m.conf, m.src),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case graphBuiltMsg:
		m.loading = false
		m.res, m.err = msg.res, msg.err
		m.updateBlocksList()
		m.updateSummary()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateSummary()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)
			m.blocksList.SetWidth(msg.Width)
			m.blocksList.SetHeight(msg.Height - 2)
			m.blockView.SetWidth(msg.Width)
			m.blockView.SetHeight(msg.Height - 2)

			m.updateSummary()
			m.showBlock(m.current)
		}

	case tea.KeyMsg:
		// Let the list handle keys while filtering
		if m.mode == viewBlocks && m.blocksList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.mode = viewSummary
			return m, nil
		case "b":
			if m.hasGraph() {
				m.mode = viewBlocks
			}
			return m, nil
		case "enter":
			if m.mode == viewBlocks {
				if item, ok := m.blocksList.SelectedItem().(blockItem); ok {
					m.showBlock(item.id)
					m.mode = viewBlock
				}
				return m, nil
			}
		case "esc":
			if m.mode == viewBlock {
				m.mode = viewBlocks
				return m, nil
			}
		case "n", "p":
			// follow the first successor or predecessor
			if m.mode == viewBlock {
				next := m.res.CFG.Succs(m.current)
				if msg.String() == "p" {
					next = m.res.CFG.Preds(m.current)
				}
				if len(next) > 0 {
					m.showBlock(next[0])
				}
				return m, nil
			}
		case "tab":
			if m.hasGraph() {
				switch m.mode {
				case viewSummary:
					m.mode = viewBlocks
				default:
					m.mode = viewSummary
				}
			}
			return m, nil
		}
	}

	// Update the active view
	switch m.mode {
	case viewBlocks:
		m.blocksList, cmd = m.blocksList.Update(msg)
	case viewBlock:
		m.blockView, cmd = m.blockView.Update(msg)
	default:
		m.summary, cmd = m.summary.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content, menu string
	switch m.mode {
	case viewBlocks:
		content = m.blocksList.View()
		menu = " Enter: open block • S: summary • Tab: cycle • Q: quit "
	case viewBlock:
		content = m.blockView.View()
		menu = " N: next • P: previous • Esc: blocks • S: summary • Q: quit "
	default:
		content = m.summary.View()
		if m.hasGraph() {
			menu = " B: blocks • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) hasGraph() bool {
	return m.res != nil && m.res.CFG != nil && !m.res.CFG.Released()
}

// summaryMarkdown is the markdown shown on the summary page
func (m *model) summaryMarkdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# ESIL CFG\n\n```\n; %s\n; arch %s\n```\n\n", m.src.name, m.conf.Arch)
	switch {
	case m.loading:
		fmt.Fprintf(&sb, "%s Building graph...\n", m.spinner.View())
	case m.err != nil:
		fmt.Fprintf(&sb, "> %v\n", m.err)
	default:
		s := m.res.Stats
		fmt.Fprintf(&sb, "## Graph\n\n")
		fmt.Fprintf(&sb, "- instructions: %d\n", m.res.Ops)
		fmt.Fprintf(&sb, "- blocks: %d (%d reachable)\n", s.Blocks, s.Reachable)
		fmt.Fprintf(&sb, "- edges: %d\n", s.Edges)
		for _, e := range []cfg.Enter{cfg.EnterNormal, cfg.EnterTrue, cfg.EnterFalse, cfg.EnterGlue} {
			fmt.Fprintf(&sb, "- %s blocks: %d\n", e, s.ByEnter[e])
		}
		fmt.Fprintf(&sb, "- built in %s\n\n", m.res.Elapsed.Round(time.Microsecond))

		fmt.Fprintf(&sb, "## Findings\n\n")
		if len(m.res.Findings) == 0 {
			sb.WriteString("No findings.\n")
		}
		for _, f := range m.res.Findings {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
	}
	return sb.String()
}

func (m *model) updateSummary() {
	width := m.width
	if width == 0 {
		width = 80
	}
	rendered := render.Glamour(m.summaryMarkdown(), width-2)
	m.summary.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (m *model) updateBlocksList() {
	if !m.hasGraph() {
		return
	}
	c := m.res.CFG
	order := render.Order(c)
	items := make([]list.Item, 0, len(order))
	for _, id := range order {
		b := c.Block(id)
		items = append(items, blockItem{
			id:    id,
			label: render.Label(c, id),
			first: b.First,
			enter: b.Enter,
			expr:  b.Expr,
		})
	}
	m.blocksList.SetItems(items)
}

func (m *model) showBlock(id cfg.NodeID) {
	if !m.hasGraph() || !m.res.CFG.Has(id) {
		return
	}
	m.current = id
	width := m.width
	if width == 0 {
		width = 80
	}
	rendered := render.Glamour(render.BlockMarkdown(m.res.CFG, id), width-2)
	m.blockView.SetContent(strings.TrimSuffix(rendered, "\n"))
	m.blockView.GotoTop()
}
