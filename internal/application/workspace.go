package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"unsort/internal/domain"
	"unsort/internal/ports"
)

const (
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 10
)

var errServiceNotConfigured = errors.New("no memory service configured")

// Options tunes a Workspace. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	PollAttempts int
	Logger       *log.Logger
	Now          func() time.Time
	NewID        func() string
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.PollAttempts <= 0 {
		o.PollAttempts = DefaultPollAttempts
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// state is the durable part of the workspace plus the last fetched remote clusters.
type state struct {
	notes      []domain.Note
	categories []domain.UserCategory
	remote     []domain.Cluster
	prefs      domain.Preferences
}

// Workspace owns the notes, user categories, preferences and the merged
// cluster list. Every mutation runs under one lock, is persisted, and is
// followed by a local refresh of the cluster list before the lock is released.
type Workspace struct {
	store   ports.DocumentStore
	service ports.MemoryService
	opts    Options
	logger  *log.Logger

	mu       sync.Mutex
	current  state
	clusters []domain.Cluster

	resync singleflight.Group
}

// NewWorkspace creates an empty workspace. service may be nil, in which case
// the workspace works offline with local clusters only.
func NewWorkspace(store ports.DocumentStore, service ports.MemoryService, opts Options) *Workspace {
	opts = opts.withDefaults()
	return &Workspace{
		store:   store,
		service: service,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// Online reports whether a memory service is configured.
func (w *Workspace) Online() bool {
	return w.service != nil
}

// Load reads the persisted state. Unreadable documents are replaced by their
// default value and logged.
func (w *Workspace) Load(ctx context.Context) error {
	notes, err := loadDocument[[]domain.Note](ctx, w, ports.KeyNotes)
	if err != nil {
		return err
	}
	categories, err := loadDocument[[]domain.UserCategory](ctx, w, ports.KeyUserCategories)
	if err != nil {
		return err
	}
	cached, err := loadDocument[[]domain.Cluster](ctx, w, ports.KeyClusters)
	if err != nil {
		return err
	}
	prefs, err := loadDocument[domain.Preferences](ctx, w, ports.KeyPreferences)
	if err != nil {
		return err
	}

	var remote []domain.Cluster
	for _, c := range cached {
		if c.Origin == domain.OriginRemote || c.Origin == domain.OriginUnknown {
			remote = append(remote, c)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = state{notes: notes, categories: categories, remote: remote, prefs: prefs}
	w.clusters = buildClusters(w.current)

	w.logger.Debug("workspace loaded",
		"notes", len(notes), "categories", len(categories), "remote", len(remote), "clusters", len(w.clusters))
	return nil
}

func loadDocument[T any](ctx context.Context, w *Workspace, key string) (T, error) {
	var v T
	_, err := w.store.Load(ctx, key, &v)
	if errors.Is(err, ports.ErrCorruptDocument) {
		w.logger.Warn("discarding unreadable document", "key", key, "err", err)
		var zero T
		return zero, nil
	}
	if err != nil {
		return v, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return v, nil
}

// Close releases the underlying store.
func (w *Workspace) Close() error {
	return w.store.Close()
}

func buildClusters(s state) []domain.Cluster {
	return domain.BuildClusters(s.notes, s.categories, s.remote, s.prefs)
}

// stateLocked returns a copy of the current state that can be changed
// without affecting readers. Callers hold w.mu.
func (w *Workspace) stateLocked() state {
	return state{
		notes:      slices.Clone(w.current.notes),
		categories: slices.Clone(w.current.categories),
		remote:     slices.Clone(w.current.remote),
		prefs:      w.current.prefs.Clone(),
	}
}

// commitLocked persists the given documents of next together with the
// recomputed cluster list and then makes next current. Callers hold w.mu.
func (w *Workspace) commitLocked(ctx context.Context, next state, keys ...string) error {
	clusters := buildClusters(next)

	docs := make([]ports.Document, 0, len(keys)+1)
	for _, key := range keys {
		switch key {
		case ports.KeyNotes:
			docs = append(docs, ports.Document{Key: key, Value: next.notes})
		case ports.KeyUserCategories:
			docs = append(docs, ports.Document{Key: key, Value: next.categories})
		case ports.KeyPreferences:
			docs = append(docs, ports.Document{Key: key, Value: next.prefs})
		}
	}
	docs = append(docs, ports.Document{Key: ports.KeyClusters, Value: clusters})

	if err := w.store.SaveAll(ctx, docs...); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}

	w.current = next
	w.clusters = clusters
	return nil
}

// RefreshLocal recomputes the cluster list from the local state and the
// remote clusters already held, and persists it.
func (w *Workspace) RefreshLocal(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitLocked(ctx, w.stateLocked())
}

// Resync fetches the remote categories and rebuilds the cluster list.
// On failure the previously merged remote clusters are kept.
// Concurrent calls share a single fetch.
func (w *Workspace) Resync(ctx context.Context) error {
	if w.service == nil {
		return &ServiceError{Op: "categories", Err: errServiceNotConfigured}
	}

	_, err, shared := w.resync.Do("resync", func() (any, error) {
		categories, err := w.service.FetchCategories(ctx)
		if err != nil {
			w.logger.Warn("resync failed, keeping previous remote clusters", "err", err)
			return nil, err
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		next := w.stateLocked()
		next.remote = domain.BuildRemoteClusters(categories)
		if err := w.commitLocked(ctx, next); err != nil {
			return nil, err
		}
		w.logger.Info("resynced remote clusters", "categories", len(categories))
		return nil, nil
	})
	if shared {
		w.logger.Debug("joined in-flight resync")
	}
	return err
}

// Clusters returns the merged, preference-filtered cluster list.
func (w *Workspace) Clusters() []domain.Cluster {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.clusters)
}

// SectionClusters returns the visible clusters of one section in display order.
func (w *Workspace) SectionClusters(section domain.Section) []domain.Cluster {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.ApplyClusterPreferences(section, w.clusters, w.current.prefs)
}

// Cluster returns the visible cluster with the given id.
func (w *Workspace) Cluster(id string) (domain.Cluster, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.FindCluster(w.clusters, id)
}

// Notes returns the active notes, newest first.
func (w *Workspace) Notes() []domain.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.ActiveNotes(w.current.notes)
}

// NoteCount returns the number of active notes in a cluster.
func (w *Workspace) NoteCount(c domain.Cluster) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.NoteCount(c, w.current.notes)
}

// Note returns the active note with the given id.
func (w *Workspace) Note(id string) (domain.Note, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, err := w.activeNoteIndexLocked(id)
	if err != nil {
		return domain.Note{}, err
	}
	return w.current.notes[i], nil
}

// Categories returns the user categories sorted by name.
func (w *Workspace) Categories() []domain.UserCategory {
	w.mu.Lock()
	defer w.mu.Unlock()
	categories := slices.Clone(w.current.categories)
	domain.SortUserCategories(categories)
	return categories
}

// Preferences returns a copy of the current preferences.
func (w *Workspace) Preferences() domain.Preferences {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current.prefs.Clone()
}

func (w *Workspace) activeNoteIndexLocked(id string) (int, error) {
	i := domain.FindNote(w.current.notes, id)
	if i < 0 || w.current.notes[i].Deleted {
		return -1, &NotFoundError{Kind: "note", ID: id}
	}
	return i, nil
}

func (w *Workspace) categoryIndexLocked(id string) (int, error) {
	i := slices.IndexFunc(w.current.categories, func(c domain.UserCategory) bool { return c.ID == id })
	if i < 0 {
		return -1, &NotFoundError{Kind: "category", ID: id}
	}
	return i, nil
}

// AddNote stores a new note. It returns the note together with the text of
// the newest note that existed before it, for use as submission context.
func (w *Workspace) AddNote(ctx context.Context, text string) (domain.Note, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prior, _ := domain.RecentNoteText(w.current.notes)
	note := domain.Note{
		ID:        w.opts.NewID(),
		Text:      text,
		CreatedAt: w.opts.Now(),
	}

	next := w.stateLocked()
	next.notes = append(next.notes, note)
	if err := w.commitLocked(ctx, next, ports.KeyNotes); err != nil {
		return domain.Note{}, "", err
	}
	return note, prior, nil
}

// EditNote replaces the text of a note.
func (w *Workspace) EditNote(ctx context.Context, id, text string) (domain.Note, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, err := w.activeNoteIndexLocked(id)
	if err != nil {
		return domain.Note{}, err
	}

	next := w.stateLocked()
	next.notes[i].Text = text
	if err := w.commitLocked(ctx, next, ports.KeyNotes); err != nil {
		return domain.Note{}, err
	}
	return next.notes[i], nil
}

// DeleteNote soft-deletes a note.
func (w *Workspace) DeleteNote(ctx context.Context, id string) (domain.Note, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, err := w.activeNoteIndexLocked(id)
	if err != nil {
		return domain.Note{}, err
	}

	next := w.stateLocked()
	next.notes[i].Deleted = true
	if err := w.commitLocked(ctx, next, ports.KeyNotes); err != nil {
		return domain.Note{}, err
	}
	return next.notes[i], nil
}

// ToggleNoteCategory files the note under the user category, or removes it
// if it is already filed there. It reports whether the category was added.
func (w *Workspace) ToggleNoteCategory(ctx context.Context, noteID, categoryID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, err := w.activeNoteIndexLocked(noteID)
	if err != nil {
		return false, err
	}
	if _, err := w.categoryIndexLocked(categoryID); err != nil {
		return false, err
	}

	next := w.stateLocked()
	note := &next.notes[i]
	added := !note.HasCategory(categoryID)
	if added {
		note.CategoryIDs = append(slices.Clone(note.CategoryIDs), categoryID)
	} else {
		note.CategoryIDs = slices.DeleteFunc(slices.Clone(note.CategoryIDs), func(id string) bool {
			return id == categoryID
		})
	}

	if err := w.commitLocked(ctx, next, ports.KeyNotes); err != nil {
		return false, err
	}
	return added, nil
}

// CreateCategory declares a new user category.
func (w *Workspace) CreateCategory(ctx context.Context, name, description string) (domain.UserCategory, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	category := domain.UserCategory{
		ID:          w.opts.NewID(),
		Name:        name,
		Description: description,
		CreatedAt:   w.opts.Now(),
	}

	next := w.stateLocked()
	next.categories = append(next.categories, category)
	if err := w.commitLocked(ctx, next, ports.KeyUserCategories); err != nil {
		return domain.UserCategory{}, err
	}
	return category, nil
}

// DeleteCategory removes a user category and strips it from every note.
// It returns the number of notes that were filed under it.
func (w *Workspace) DeleteCategory(ctx context.Context, id string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, err := w.categoryIndexLocked(id)
	if err != nil {
		return 0, err
	}

	next := w.stateLocked()
	next.categories = slices.Delete(next.categories, i, i+1)

	untagged := 0
	for j := range next.notes {
		if !next.notes[j].HasCategory(id) {
			continue
		}
		untagged++
		next.notes[j].CategoryIDs = slices.DeleteFunc(slices.Clone(next.notes[j].CategoryIDs), func(c string) bool {
			return c == id
		})
	}

	if err := w.commitLocked(ctx, next, ports.KeyUserCategories, ports.KeyNotes); err != nil {
		return 0, err
	}
	return untagged, nil
}

// HideCluster hides a cluster from the list. It reports whether anything changed.
func (w *Workspace) HideCluster(ctx context.Context, id string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current.prefs.IsClusterHidden(id) {
		return false, nil
	}
	if _, ok := domain.FindCluster(w.clusters, id); !ok {
		return false, &NotFoundError{Kind: "cluster", ID: id}
	}

	next := w.stateLocked()
	next.prefs.HideCluster(id)
	if err := w.commitLocked(ctx, next, ports.KeyPreferences); err != nil {
		return false, err
	}
	return true, nil
}

// SetClusterOrder replaces the explicit order of a section.
func (w *Workspace) SetClusterOrder(ctx context.Context, section domain.Section, ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.stateLocked()
	next.prefs.SetClusterOrder(section, ids)
	return w.commitLocked(ctx, next, ports.KeyPreferences)
}

// MoveClusters moves the clusters at the from positions of a section to
// position to, and stores the resulting order. It returns the new order.
func (w *Workspace) MoveClusters(ctx context.Context, section domain.Section, from []int, to int) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	visible := domain.ApplyClusterPreferences(section, w.clusters, w.current.prefs)
	ids := make([]string, 0, len(visible))
	for _, c := range visible {
		ids = append(ids, c.ID())
	}
	order := domain.MoveIDs(ids, from, to)

	next := w.stateLocked()
	next.prefs.SetClusterOrder(section, order)
	if err := w.commitLocked(ctx, next, ports.KeyPreferences); err != nil {
		return nil, err
	}
	return order, nil
}

// HideItem hides an aggregated item within a cluster. It reports whether anything changed.
func (w *Workspace) HideItem(ctx context.Context, clusterID, itemID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.stateLocked()
	if !next.prefs.HideItem(clusterID, itemID) {
		return false, nil
	}
	if err := w.commitLocked(ctx, next, ports.KeyPreferences); err != nil {
		return false, err
	}
	return true, nil
}

// SetItemOrder replaces the explicit item order of a cluster.
func (w *Workspace) SetItemOrder(ctx context.Context, clusterID string, ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.stateLocked()
	next.prefs.SetItemOrder(clusterID, ids)
	return w.commitLocked(ctx, next, ports.KeyPreferences)
}

// Submission is the outcome of sending a note to the memory service.
type Submission struct {
	Note      domain.Note
	Submitted bool
	TaskID    string
	Status    domain.TaskStatus
}

// SubmitNote saves a note locally, sends it to the memory service, waits
// for processing and resyncs. The note stays saved whatever happens after
// the local save. A task still pending after the last poll is not an error.
func (w *Workspace) SubmitNote(ctx context.Context, text string) (*Submission, error) {
	note, prior, err := w.AddNote(ctx, text)
	if err != nil {
		return nil, err
	}

	sub := &Submission{Note: note}
	if w.service == nil {
		return sub, nil
	}

	taskID, err := w.service.Submit(ctx, text, prior)
	if err != nil {
		w.logger.Warn("submit failed, note kept locally", "note", note.ID, "err", err)
		return sub, err
	}
	sub.Submitted = true
	sub.TaskID = taskID

	status, pollErr := w.poll(ctx, taskID)
	sub.Status = status
	if pollErr != nil {
		w.logger.Warn("polling stopped", "task", taskID, "err", pollErr)
	}

	resyncErr := w.Resync(ctx)
	return sub, errors.Join(pollErr, resyncErr)
}

func (w *Workspace) poll(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	for attempt := 1; attempt <= w.opts.PollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return domain.TaskPending, ctx.Err()
		case <-time.After(w.opts.PollInterval):
		}

		status, err := w.service.PollStatus(ctx, taskID)
		if err != nil {
			return status, err
		}
		if status == domain.TaskSuccess {
			w.logger.Debug("memorize task done", "task", taskID, "attempts", attempt)
			return status, nil
		}
	}
	w.logger.Info("memorize task still pending", "task", taskID, "attempts", w.opts.PollAttempts)
	return domain.TaskPending, nil
}

// ClusterView is everything shown for an opened cluster.
type ClusterView struct {
	Cluster  domain.Cluster
	Notes    []domain.Note
	Items    []domain.AggregatedItem // aggregated, preference-filtered
	RawItems []domain.RetrievedItem
	Summary  string
	// RetrieveErr is set when the memory service could not be queried;
	// the view then has no items and only the cluster's own summary.
	RetrieveErr error
}

// OpenCluster collects the local notes of a cluster and, when online, the
// aggregated items the memory service returns for it.
func (w *Workspace) OpenCluster(ctx context.Context, id string) (*ClusterView, error) {
	w.mu.Lock()
	c, ok := domain.FindCluster(w.clusters, id)
	if !ok {
		w.mu.Unlock()
		return nil, &NotFoundError{Kind: "cluster", ID: id}
	}
	view := &ClusterView{
		Cluster: c,
		Notes:   domain.NotesForCluster(c, w.current.notes),
		Summary: c.Summary,
	}
	w.mu.Unlock()

	if w.service == nil {
		return view, nil
	}

	retrieval, err := w.service.Retrieve(ctx, domain.RetrievalQuery(c))
	if err != nil {
		w.logger.Warn("retrieve failed", "cluster", id, "err", err)
		view.RetrieveErr = err
		return view, nil
	}

	view.RawItems = retrieval.Items
	if view.Summary == "" {
		view.Summary = retrieval.Summary()
	}

	aggregated := domain.Aggregate(retrieval.Items)
	w.mu.Lock()
	view.Items = domain.ApplyItemPreferences(id, aggregated, w.current.prefs)
	w.mu.Unlock()
	return view, nil
}
