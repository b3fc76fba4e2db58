package views

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/application"
	"unsort/internal/application/apptest"
	"unsort/internal/application/commands"
	"unsort/internal/domain"
	"unsort/internal/ports"
)

func newDeps(t *testing.T, service ports.MemoryService, notes ...string) Deps {
	t.Helper()
	ws := application.NewWorkspace(apptest.NewMockStore(), service, application.Options{
		PollInterval: time.Millisecond,
		PollAttempts: 2,
	})
	ctx := context.Background()
	if err := ws.Load(ctx); err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}
	for _, text := range notes {
		if _, err := commands.NewCreateNoteCommand(ws, text).Execute(ctx); err != nil {
			t.Fatalf("failed to add note: %v", err)
		}
	}
	return Deps{Workspace: ws}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd and flattens batches, skipping nil results
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed delivers every message produced by cmd back to the model
func feed(m tea.Model, cmd tea.Cmd) []tea.Msg {
	var delivered []tea.Msg
	for _, msg := range collect(cmd) {
		delivered = append(delivered, msg)
		m.Update(msg)
	}
	return delivered
}

func rowIDs(m *ClustersModel) []string {
	ids := make([]string, len(m.rows))
	for i, row := range m.rows {
		ids[i] = row.summary.Cluster.ID()
	}
	return ids
}

func TestListWindow(t *testing.T) {
	tests := []struct {
		name             string
		n, cursor, h     int
		wantStart, wantE int
	}{
		{"fits", 5, 2, 10, 0, 5},
		{"no height", 5, 2, 0, 0, 5},
		{"top", 20, 0, 5, 0, 5},
		{"middle", 20, 10, 5, 8, 13},
		{"bottom", 20, 19, 5, 15, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := listWindow(tt.n, tt.cursor, tt.h)
			if start != tt.wantStart || end != tt.wantE {
				t.Errorf("listWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.n, tt.cursor, tt.h, start, end, tt.wantStart, tt.wantE)
			}
		})
	}
}

func TestViewBuilder(t *testing.T) {
	tests := []struct {
		name    string
		build   func(*ViewBuilder)
		want    []string
		notWant string
	}{
		{
			name:  "title and muted text",
			build: func(v *ViewBuilder) { v.Title("Clusters").Muted("no notes yet") },
			want:  []string{"Clusters", "no notes yet"},
		},
		{
			name:  "error message",
			build: func(v *ViewBuilder) { v.Message("sync failed", true) },
			want:  []string{"sync failed"},
		},
		{
			name:    "empty message adds nothing",
			build:   func(v *ViewBuilder) { v.Line("body").Message("", false) },
			want:    []string{"body"},
			notWant: "\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewBuilder()
			tt.build(v)
			got := v.b.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in %q", want, got)
				}
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("unexpected %q in %q", tt.notWant, got)
			}
		})
	}
}

func TestClustersModel_LoadAndRender(t *testing.T) {
	deps := newDeps(t, nil, "Aさんと明日の会議の資料を確認する", "田中さんと会議")
	m := NewClustersModel(deps)
	feed(m, m.Init())

	want := []string{"entity:田中さん", "local:work", "local:plan"}
	if got := rowIDs(m); !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}

	view := m.View()
	for _, s := range []string{"People", "Categories", "offline", "(2)"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected %q in view", s)
		}
	}
}

func TestClustersModel_Navigation(t *testing.T) {
	deps := newDeps(t, nil, "Aさんと明日の会議の資料を確認する", "田中さんと会議")
	m := NewClustersModel(deps)
	feed(m, m.Init())

	m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}
	for range 5 {
		m.Update(keyMsg("j"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	_, cmd := m.Update(keyMsg("enter"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if sw, ok := msgs[0].(SwitchToClusterMsg); !ok || sw.ClusterID != "local:plan" {
		t.Errorf("unexpected message %#v", msgs[0])
	}
}

func TestClustersModel_MoveWithinSection(t *testing.T) {
	deps := newDeps(t, nil, "Aさんと明日の会議の資料を確認する", "田中さんと会議")
	m := NewClustersModel(deps)
	feed(m, m.Init())

	m.Update(keyMsg("j")) // local:work
	_, cmd := m.Update(keyMsg("J"))
	for _, msg := range collect(cmd) {
		_, reload := m.Update(msg)
		feed(m, reload)
	}

	want := []string{"entity:田中さん", "local:plan", "local:work"}
	if got := rowIDs(m); !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if m.SelectedID() != "local:work" {
		t.Errorf("cursor should follow the moved cluster, got %s", m.SelectedID())
	}

	// The last row of a section cannot move down, the first cannot move up
	if _, cmd := m.Update(keyMsg("J")); cmd != nil {
		t.Error("expected no command when moving the last row down")
	}
	m.Update(keyMsg("k"))
	if _, cmd := m.Update(keyMsg("K")); cmd != nil {
		t.Error("expected no command when moving the first row up")
	}
}

func TestClustersModel_HideAsksFirst(t *testing.T) {
	deps := newDeps(t, nil, "田中さんと会議")
	m := NewClustersModel(deps)
	feed(m, m.Init())
	id := m.SelectedID()

	m.Update(keyMsg("x"))
	if !m.confirm.Active() {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(m.View(), "Hide") {
		t.Error("expected prompt in view")
	}

	// Other keys are swallowed while the prompt is open
	m.Update(keyMsg("j"))
	if m.SelectedID() != id {
		t.Error("cursor moved while confirming")
	}

	m.Update(keyMsg("n"))
	if m.confirm.Active() {
		t.Error("expected prompt to close on cancel")
	}
	if deps.Workspace.Preferences().IsClusterHidden(id) {
		t.Fatal("cluster hidden after cancel")
	}

	m.Update(keyMsg("x"))
	_, cmd := m.Update(keyMsg("y"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if _, ok := msgs[0].(clustersChangedMsg); !ok {
		t.Fatalf("unexpected message %#v", msgs[0])
	}
	if !deps.Workspace.Preferences().IsClusterHidden(id) {
		t.Error("expected cluster to be hidden")
	}
}

func TestClustersModel_SyncOffline(t *testing.T) {
	deps := newDeps(t, nil, "田中さんと会議")
	m := NewClustersModel(deps)
	feed(m, m.Init())

	msg := m.sync()()
	done, ok := msg.(syncDoneMsg)
	if !ok {
		t.Fatalf("unexpected message %#v", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	m.syncing = true
	m.Update(done)
	if m.syncing || m.MessageErr {
		t.Errorf("syncing = %v, message = %q", m.syncing, m.Message)
	}
}

func TestClusterModel_Items(t *testing.T) {
	service := &apptest.MockMemoryService{
		Retrieval: &domain.Retrieval{Items: []domain.RetrievedItem{
			{Type: "knowledge", Content: "The user likes green tea"},
			{Type: "knowledge", Content: "the user likes green tea"},
			{Type: "knowledge", Content: "THE USER LIKES GREEN TEA"},
			{Type: "event", Content: "Walked to the park on Sunday morning"},
		}},
	}
	deps := newDeps(t, service, "田中さんと会議")
	m := NewClusterModel(deps, "entity:田中さん")
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	m.Update(m.open()())

	if m.loading || m.view == nil {
		t.Fatal("expected cluster to be loaded")
	}
	if len(m.view.Items) != 2 {
		t.Fatalf("expected 2 aggregated items, got %d", len(m.view.Items))
	}
	if !strings.Contains(m.View(), "(3)") {
		t.Error("expected duplicate count in view")
	}

	m.Update(keyMsg("y"))
	if copied != m.view.Items[0].Content {
		t.Errorf("copied %q", copied)
	}

	m.Update(keyMsg("v"))
	if m.rowCount() != 4 {
		t.Errorf("raw rows = %d, want 4", m.rowCount())
	}
	if _, cmd := m.Update(keyMsg("x")); cmd != nil {
		t.Error("raw items cannot be hidden")
	}
	m.Update(keyMsg("v"))

	hidden := m.view.Items[0].ID
	_, cmd := m.Update(keyMsg("x"))
	for _, msg := range collect(cmd) {
		_, reload := m.Update(msg)
		feed(m, reload)
	}
	if !slices.Contains(deps.Workspace.Preferences().Items("entity:田中さん").HiddenItemIDs, hidden) {
		t.Errorf("expected %s to be hidden", hidden)
	}
	if len(m.view.Items) != 1 {
		t.Errorf("expected 1 item after hiding, got %d", len(m.view.Items))
	}
}

func TestClusterModel_MoveItem(t *testing.T) {
	service := &apptest.MockMemoryService{
		Retrieval: &domain.Retrieval{Items: []domain.RetrievedItem{
			{Type: "knowledge", Content: "Likes green tea in the morning"},
			{Type: "event", Content: "Went hiking"},
		}},
	}
	deps := newDeps(t, service, "田中さんと会議")
	m := NewClusterModel(deps, "entity:田中さん")
	m.Update(m.open()())

	first, second := m.view.Items[0].ID, m.view.Items[1].ID
	_, cmd := m.Update(keyMsg("J"))
	for _, msg := range collect(cmd) {
		_, reload := m.Update(msg)
		feed(m, reload)
	}

	if got := []string{m.view.Items[0].ID, m.view.Items[1].ID}; !slices.Equal(got, []string{second, first}) {
		t.Errorf("items = %v", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestClusterModel_RetrieveFailure(t *testing.T) {
	service := &apptest.MockMemoryService{RetrieveErr: errors.New("boom")}
	deps := newDeps(t, service, "田中さんと会議")
	m := NewClusterModel(deps, "entity:田中さん")
	m.Update(m.open()())

	if m.view == nil {
		t.Fatal("expected notes to be shown despite the failure")
	}
	if !m.MessageErr || !strings.Contains(m.Message, "boom") {
		t.Errorf("message = %q", m.Message)
	}
}

func TestClusterModel_NotFound(t *testing.T) {
	deps := newDeps(t, nil)
	m := NewClusterModel(deps, "local:missing")
	_, cmd := m.Update(m.open()())

	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if _, ok := msgs[0].(SwitchToClustersMsg); !ok {
		t.Errorf("unexpected message %#v", msgs[0])
	}
}

func TestWriteModel_Submit(t *testing.T) {
	deps := newDeps(t, nil)
	m := NewWriteModel(deps)

	if _, cmd := m.Update(keyMsg("ctrl+s")); cmd != nil {
		t.Error("expected no command for an empty note")
	}
	if !m.MessageErr {
		t.Error("expected an error message for an empty note")
	}

	m.textarea.SetValue("田中さんと会議")
	_, cmd := m.Update(keyMsg("ctrl+s"))
	var switched bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(noteSubmittedMsg); !ok {
			continue
		}
		_, next := m.Update(msg)
		for _, out := range collect(next) {
			if sw, ok := out.(SwitchToClustersMsg); ok {
				switched = true
				if !strings.Contains(sw.Message, "offline") {
					t.Errorf("message = %q", sw.Message)
				}
			}
		}
	}
	if !switched {
		t.Error("expected to return to the cluster list")
	}
	if n := len(deps.Workspace.Notes()); n != 1 {
		t.Errorf("expected 1 note, got %d", n)
	}
}

func TestCategoryModel_Create(t *testing.T) {
	deps := newDeps(t, nil)
	m := NewCategoryModel(deps)

	if _, cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Error("expected validation to stop an empty name")
	}
	if !m.MessageErr {
		t.Error("expected a validation message")
	}

	for _, r := range "Reading" {
		m.Update(keyMsg(string(r)))
	}
	m.Update(keyMsg("tab"))
	for _, r := range "books" {
		m.Update(keyMsg(string(r)))
	}
	if m.form.Value(0) != "Reading" || m.form.Value(1) != "books" {
		t.Fatalf("form values = %q, %q", m.form.Value(0), m.form.Value(1))
	}

	_, cmd := m.Update(keyMsg("enter"))
	feed(m, cmd)

	categories := deps.Workspace.Categories()
	if len(categories) != 1 || categories[0].Name != "Reading" || categories[0].Description != "books" {
		t.Errorf("categories = %+v", categories)
	}
}
