// Package tui is the terminal front end: pick a project, confirm roles, write the report.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/roles"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/session"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/util"
)

type appState int

const (
	statePickProject appState = iota // project list
	stateLoading                     // fetching entries and groups
	stateAssign                      // role assignment table
)

// ReportRecorder records emitted reports. *store.Store implements it.
type ReportRecorder interface {
	CreateReportLog(ctx context.Context, sessionID string, project model.Project, fileName string, v model.RoleHoursVector) (int64, error)
}

// Options holds what the App needs.
type Options struct {
	Source    session.DataSource
	Emitter   session.Emitter
	ExportDir string
	History   ReportRecorder // optional
	ProjectID string         // preselect this project id or identifier
	Log       zerolog.Logger
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type projectLoadedMsg struct {
	project model.Project
	err     error
}

type reportWrittenMsg struct {
	path string
	err  error
}

type projectItem struct {
	project model.Project
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	if i.project.Identifier != "" {
		return fmt.Sprintf("#%s · %s", i.project.ID, i.project.Identifier)
	}
	return "#" + i.project.ID
}
func (i projectItem) FilterValue() string { return i.project.Name + " " + i.project.Identifier }

// App bubbletea model.
type App struct {
	state   appState
	ctx     context.Context
	opts    Options
	session *session.Session

	projects list.Model
	snapshot session.Snapshot
	cursor   int
	choice   map[string]int // index into the candidate's choices

	status  string
	warning string
	err     error

	lastReport string

	width  int
	height int
}

// NewApp builds the TUI model.
func NewApp(ctx context.Context, opts Options) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	projects := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	projects.Title = "Calculadora OpenProject · Proyectos"
	projects.SetShowStatusBar(false)

	return &App{
		state:    statePickProject,
		ctx:      ctx,
		opts:     opts,
		session:  session.New("tui", opts.Source, opts.Log),
		projects: projects,
		choice:   make(map[string]int),
	}
}

// LastReport path of the most recently written workbook.
func (a *App) LastReport() string { return a.lastReport }

// Init loads the project list.
func (a *App) Init() tea.Cmd {
	return a.loadProjects()
}

func (a *App) loadProjects() tea.Cmd {
	src := a.opts.Source
	ctx := a.ctx
	return func() tea.Msg {
		projects, err := src.ListProjects(ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (a *App) loadProject(p model.Project) tea.Cmd {
	a.state = stateLoading
	a.status = ""
	a.warning = ""
	a.err = nil
	s := a.session
	ctx := a.ctx
	return func() tea.Msg {
		return projectLoadedMsg{project: p, err: s.Reset(ctx, p)}
	}
}

func (a *App) generateReport() tea.Cmd {
	s := a.session
	opts := a.opts
	ctx := a.ctx
	return func() tea.Msg {
		res, err := s.GenerateReport(opts.Emitter)
		if err != nil {
			return reportWrittenMsg{err: err}
		}
		path := filepath.Join(opts.ExportDir, res.Report.FileName)
		if err := util.WriteFileAtomic(path, res.Report.Data); err != nil {
			return reportWrittenMsg{err: fmt.Errorf("write report: %w", err)}
		}
		if opts.History != nil {
			if _, err := opts.History.CreateReportLog(ctx, s.ID(), res.Project, res.Report.FileName, res.RoleHours); err != nil {
				opts.Log.Warn().Err(err).Str("file", res.Report.FileName).Msg("failed to record report")
			}
		}
		return reportWrittenMsg{path: path}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.projects.SetSize(msg.Width, max(msg.Height-2, 5))
		return a, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		items := make([]list.Item, 0, len(msg.projects))
		for _, p := range msg.projects {
			items = append(items, projectItem{project: p})
		}
		cmd := a.projects.SetItems(items)
		if id := strings.TrimSpace(a.opts.ProjectID); id != "" {
			for _, p := range msg.projects {
				if p.ID == id || p.Identifier == id {
					return a, a.loadProject(p)
				}
			}
			a.err = fmt.Errorf("%w: %s", session.ErrProjectNotFound, id)
		}
		return a, cmd

	case projectLoadedMsg:
		if msg.err != nil {
			a.state = statePickProject
			a.err = msg.err
			return a, nil
		}
		a.state = stateAssign
		a.cursor = 0
		a.choice = make(map[string]int)
		a.refresh()
		return a, nil

	case reportWrittenMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.lastReport = msg.path
		a.status = "Informe guardado en " + msg.path
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case statePickProject:
			return a.updatePicker(msg)
		case stateAssign:
			return a.updateAssign(msg)
		}
		return a, nil
	}

	if a.state == statePickProject {
		var cmd tea.Cmd
		a.projects, cmd = a.projects.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.projects.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "enter":
			item, ok := a.projects.SelectedItem().(projectItem)
			if !ok {
				return a, nil
			}
			return a, a.loadProject(item.project)
		}
	}
	var cmd tea.Cmd
	a.projects, cmd = a.projects.Update(msg)
	return a, cmd
}

func (a *App) updateAssign(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	candidates := a.snapshot.Candidates
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "p", "esc":
		a.state = statePickProject
		a.status, a.warning, a.err = "", "", nil
		return a, nil
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(candidates)-1 {
			a.cursor++
		}
	case "left", "h":
		a.cycle(-1)
	case "right", "l":
		a.cycle(1)
	case "enter":
		if c, ok := a.current(); ok {
			a.apply(a.session.Assign(c.UserID, c.Choices[a.choiceIndex(c)]))
		}
	case "x", "backspace":
		if c, ok := a.current(); ok {
			delete(a.choice, c.UserID)
			a.apply(a.session.Clear(c.UserID))
		}
	case "g":
		switch {
		case len(candidates) == 0:
			a.warning = "El proyecto no tiene horas registradas"
		case !a.snapshot.Complete:
			a.warning = fmt.Sprintf("Faltan %d usuario(s) por asignar", len(a.snapshot.Missing))
		default:
			a.warning = ""
			a.status = "Generando informe..."
			return a, a.generateReport()
		}
	}
	return a, nil
}

func (a *App) apply(err error) {
	a.err = err
	a.warning = ""
	a.refresh()
}

func (a *App) refresh() {
	a.snapshot = a.session.Snapshot()
	if a.cursor >= len(a.snapshot.Candidates) {
		a.cursor = max(len(a.snapshot.Candidates)-1, 0)
	}
}

func (a *App) current() (session.CandidateView, bool) {
	if a.cursor < 0 || a.cursor >= len(a.snapshot.Candidates) {
		return session.CandidateView{}, false
	}
	return a.snapshot.Candidates[a.cursor], true
}

// choiceIndex the highlighted choice; defaults to the resolver's preselection.
func (a *App) choiceIndex(c session.CandidateView) int {
	if i, ok := a.choice[c.UserID]; ok && i < len(c.Choices) {
		return i
	}
	for i, ch := range c.Choices {
		if ch == c.Default {
			return i
		}
	}
	return 0
}

func (a *App) cycle(delta int) {
	c, ok := a.current()
	if !ok || len(c.Choices) == 0 {
		return
	}
	n := len(c.Choices)
	a.choice[c.UserID] = (a.choiceIndex(c) + delta + n) % n
}

// View renders the current screen.
func (a *App) View() string {
	var b strings.Builder
	switch a.state {
	case statePickProject:
		b.WriteString(a.projects.View())
	case stateLoading:
		b.WriteString(titleStyle.Render("Calculadora OpenProject"))
		b.WriteString("\n\nCargando entradas de tiempo y grupos...\n")
	case stateAssign:
		b.WriteString(a.viewAssign())
	}
	if a.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+a.err.Error()))
	}
	return b.String()
}

func (a *App) viewAssign() string {
	snap := a.snapshot
	var b strings.Builder
	b.WriteString(titleStyle.Render("Proyecto: " + snap.Project.Name))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Total %.2f h · Duración %.1f meses · %d usuario(s)",
		snap.TotalHours, snap.DurationMonths, len(snap.Candidates))))
	b.WriteString("\n\n")

	nameWidth := 10
	for _, c := range snap.Candidates {
		nameWidth = max(nameWidth, lipgloss.Width(c.DisplayName))
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %9s  %-28s %s", nameWidth, "Usuario", "Horas", "Estado", "Rol")))
	b.WriteString("\n")

	for i, c := range snap.Candidates {
		prefix := "  "
		if i == a.cursor {
			prefix = cursorStyle.Render("> ")
		}
		choice := c.Choices[a.choiceIndex(c)]
		role := "◀ " + choice + " ▶"
		switch {
		case c.AssignedRole != "":
			role += " " + successStyle.Render("✓")
		case choice == roles.ChooseSentinel:
			role += " " + errorStyle.Render("pendiente")
		default:
			role += " " + warningStyle.Render("pendiente")
		}
		label := statusStyle(c.Status).Render(fmt.Sprintf("%-28s", c.StatusLabel))
		b.WriteString(fmt.Sprintf("%s%-*s %9.2f  %s %s\n", prefix, nameWidth, c.DisplayName, c.TotalHours, label, role))
	}
	if len(snap.Candidates) == 0 {
		b.WriteString(subtleStyle.Render("  (sin horas registradas)") + "\n")
	}

	if a.warning != "" {
		b.WriteString("\n" + warningStyle.Render(a.warning))
	}
	if a.status != "" {
		b.WriteString("\n" + successStyle.Render(a.status))
	}
	b.WriteString(footerStyle.Render("\n↑/↓ usuario · ←/→ rol · enter asignar · x limpiar · g generar · p proyectos · q salir"))
	return b.String()
}
