package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
)

type fakeSource struct {
	groupsErr error
}

func (f *fakeSource) ListProjects(ctx context.Context) ([]model.Project, error) {
	return []model.Project{
		{ID: "1", Identifier: "alpha", Name: "Alpha"},
		{ID: "2", Identifier: "beta", Name: "Beta"},
	}, nil
}

func (f *fakeSource) ListTimeEntries(ctx context.Context, projectID string) ([]model.TimeEntry, error) {
	return []model.TimeEntry{
		{UserID: "U1", UserName: "Ana", Duration: "PT3H", SpentOn: "2024-01-01"},
		{UserID: "U2", UserName: "Luis", Duration: "PT2H", SpentOn: "2024-01-02"},
	}, nil
}

func (f *fakeSource) ListGroups(ctx context.Context) ([]model.Group, error) {
	if f.groupsErr != nil {
		return nil, f.groupsErr
	}
	return []model.Group{
		{Name: "Gerente Unidad Telco", MemberRefs: []string{"/api/v3/users/U1"}},
	}, nil
}

type recorder struct {
	files []string
}

func (r *recorder) CreateReportLog(ctx context.Context, sessionID string, project model.Project, fileName string, v model.RoleHoursVector) (int64, error) {
	r.files = append(r.files, fileName)
	return int64(len(r.files)), nil
}

func newTestApp(t *testing.T, src *fakeSource, projectID string) (*App, *recorder) {
	t.Helper()
	rec := &recorder{}
	app := NewApp(context.Background(), Options{
		Source:    src,
		Emitter:   excel.NewReportEmitter(excel.Options{}),
		ExportDir: filepath.Join(t.TempDir(), "exports"),
		History:   rec,
		ProjectID: projectID,
		Log:       zerolog.Nop(),
	})
	next, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(*App), rec
}

// run executes cmd and feeds its message back until the chain ends.
func run(t *testing.T, app *App, cmd tea.Cmd) *App {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return app
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			return app
		}
		var next tea.Model
		next, cmd = app.Update(msg)
		app = next.(*App)
	}
	return app
}

func press(t *testing.T, app *App, key string) (*App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := app.Update(msg)
	return next.(*App), cmd
}

func TestPickProjectAndGenerate(t *testing.T) {
	app, rec := newTestApp(t, &fakeSource{}, "")
	app = run(t, app, app.Init())
	if app.state != statePickProject || len(app.projects.Items()) != 2 {
		t.Fatalf("expected project picker with 2 items, state=%d items=%d", app.state, len(app.projects.Items()))
	}

	app, cmd := press(t, app, "enter")
	if app.state != stateLoading {
		t.Fatalf("expected loading state, got %d", app.state)
	}
	app = run(t, app, cmd)
	if app.state != stateAssign {
		t.Fatalf("expected assign state, got %d err=%v", app.state, app.err)
	}
	if app.snapshot.Project.ID != "1" || len(app.snapshot.Candidates) != 2 {
		t.Fatalf("unexpected snapshot: %+v", app.snapshot)
	}

	// U2 has no detected role
	app, cmd = press(t, app, "g")
	if cmd != nil || !strings.Contains(app.warning, "Faltan 1") {
		t.Fatalf("generation must be blocked, warning=%q", app.warning)
	}

	app, _ = press(t, app, "down")
	// sentinel -> first catalog role
	app, _ = press(t, app, "right")
	app, _ = press(t, app, "enter")
	if app.err != nil {
		t.Fatalf("assign: %v", app.err)
	}
	if got := app.snapshot.Candidates[1].AssignedRole; got != model.Roles[0] {
		t.Fatalf("U2 assigned %q, want %q", got, model.Roles[0])
	}
	if !app.snapshot.Complete {
		t.Fatalf("expected complete assignment")
	}
	if !strings.Contains(app.View(), "Luis") {
		t.Fatalf("view must list candidates:\n%s", app.View())
	}

	app, cmd = press(t, app, "g")
	if cmd == nil {
		t.Fatalf("expected report command")
	}
	app = run(t, app, cmd)
	if app.err != nil {
		t.Fatalf("generate: %v", app.err)
	}
	if _, err := os.Stat(app.LastReport()); err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(app.LastReport()), "Calculadora_Alpha_") {
		t.Fatalf("unexpected report name %s", app.LastReport())
	}
	if len(rec.files) != 1 {
		t.Fatalf("expected one history record, got %d", len(rec.files))
	}
}

func TestClearRevertsToPending(t *testing.T) {
	app, _ := newTestApp(t, &fakeSource{}, "beta")
	app = run(t, app, app.Init())
	if app.state != stateAssign || app.snapshot.Project.ID != "2" {
		t.Fatalf("preselected project not loaded: state=%d err=%v", app.state, app.err)
	}
	if app.snapshot.Candidates[0].AssignedRole != "Gerente Unidad Telco" {
		t.Fatalf("U1 should be auto-assigned")
	}

	app, _ = press(t, app, "x")
	if app.snapshot.Candidates[0].AssignedRole != "" {
		t.Fatalf("clear must remove the assignment")
	}
	if len(app.snapshot.Missing) != 2 {
		t.Fatalf("expected both users missing, got %v", app.snapshot.Missing)
	}
}

func TestCycleWraps(t *testing.T) {
	app, _ := newTestApp(t, &fakeSource{}, "alpha")
	app = run(t, app, app.Init())
	app, _ = press(t, app, "down")

	c, _ := app.current()
	app, _ = press(t, app, "left")
	if got := app.choiceIndex(c); got != len(c.Choices)-1 {
		t.Fatalf("left from the first choice must wrap, got %d", got)
	}
}

func TestLoadFailureReturnsToPicker(t *testing.T) {
	app, _ := newTestApp(t, &fakeSource{groupsErr: errors.New("unavailable")}, "")
	app = run(t, app, app.Init())
	app, cmd := press(t, app, "enter")
	app = run(t, app, cmd)

	if app.state != statePickProject {
		t.Fatalf("expected picker after failure, got %d", app.state)
	}
	if app.err == nil || !strings.Contains(app.View(), "unavailable") {
		t.Fatalf("error must be shown, view:\n%s", app.View())
	}
}

func TestUnknownPreselectedProject(t *testing.T) {
	app, _ := newTestApp(t, &fakeSource{}, "zzz")
	app = run(t, app, app.Init())
	if app.state != statePickProject || app.err == nil {
		t.Fatalf("expected picker with error, state=%d err=%v", app.state, app.err)
	}
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t, &fakeSource{}, "")
	_, cmd := press(t, app, "q")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
