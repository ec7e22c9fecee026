package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/alexjbarnes/inventory-sync/internal/state"
)

// Mode is the engine's connectivity mode.
type Mode int32

const (
	ModeOnline Mode = iota
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}

	return "online"
}

// ParseMode is the inverse of String. Unknown values are online.
func ParseMode(s string) Mode {
	if s == "offline" {
		return ModeOffline
	}

	return ModeOnline
}

// Source tells where the working collection came from at startup.
type Source string

const (
	SourceServer   Source = "server"
	SourceSnapshot Source = "snapshot"
)

// StartResult reports how Start populated the engine.
type StartResult struct {
	Mode     Mode
	Source   Source
	Articles int
	Pending  int
}

// SyncReport counts what a push did.
type SyncReport struct {
	Updated   int `json:"updated"`
	Created   int `json:"created"`
	Remaining int `json:"remaining"`
}

// SaveOutcome is what SaveChanges ended up doing.
type SaveOutcome string

const (
	SaveNothing        SaveOutcome = "nothing-to-save"
	SaveLocalOnly      SaveOutcome = "saved-locally"
	SavePushed         SaveOutcome = "pushed"
	SaveOverwritten    SaveOutcome = "overwritten"
	SaveAcceptedServer SaveOutcome = "accepted-server"
	SaveCancelled      SaveOutcome = "cancelled"
)

// SaveResult reports the outcome of SaveChanges.
type SaveResult struct {
	Outcome   SaveOutcome
	Report    SyncReport
	Conflicts []int
	Skipped   []int
}

// ReconnectOutcome is what GoOnline ended up doing.
type ReconnectOutcome string

const (
	ReconnectAlreadyOnline ReconnectOutcome = "already-online"
	ReconnectPulled        ReconnectOutcome = "pulled"
	ReconnectPushed        ReconnectOutcome = "pushed"
	ReconnectDiscarded     ReconnectOutcome = "discarded"
	ReconnectCancelled     ReconnectOutcome = "cancelled"
)

// ReconnectResult reports the outcome of GoOnline.
type ReconnectResult struct {
	Outcome ReconnectOutcome
	Report  SyncReport
}

// Status is a read-only summary for hosts.
type Status struct {
	Mode             string    `json:"mode"`
	Articles         int       `json:"articles"`
	Dirty            int       `json:"dirty"`
	PendingCreations int       `json:"pending_creations"`
	LastSync         time.Time `json:"last_sync,omitzero"`
	Reachable        bool      `json:"reachable"`
	LastCheck        time.Time `json:"last_check,omitzero"`
}

// Options configures an Engine.
type Options struct {
	Repository Repository
	Prompter   Prompter
	// Journal is optional. Without it the dirty set lives only in memory.
	Journal Journal
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// StartOffline skips the server at startup.
	StartOffline bool
}

// Engine owns the working collection, the dirty set and the original
// timestamps, and coordinates every change to them. All operations that
// touch that state hold mu for their full duration, prompts included, so
// operations never interleave.
type Engine struct {
	repo     Repository
	prompter Prompter
	journal  Journal
	logger   *slog.Logger
	now      func() time.Time
	detector *ConflictDetector
	reporter DiffReporter

	startOffline bool

	mu        sync.Mutex
	articles  *Collection
	tracker   *ChangeTracker
	originals map[int]string
	lastSync  time.Time

	mode atomic.Int32

	statusMu  sync.Mutex
	reachable bool
	lastCheck time.Time
}

// NewEngine creates an engine. Call Start before using it.
func NewEngine(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		repo:         opts.Repository,
		prompter:     opts.Prompter,
		journal:      opts.Journal,
		logger:       opts.Logger,
		now:          now,
		detector:     NewConflictDetector(opts.Logger),
		startOffline: opts.StartOffline,
		articles:     NewCollection(nil),
		tracker:      NewChangeTracker(),
		originals:    make(map[int]string),
	}
	e.mode.Store(int32(ModeOffline))

	return e
}

// Mode returns the current mode without waiting for a running operation.
func (e *Engine) Mode() Mode {
	return Mode(e.mode.Load())
}

func (e *Engine) setMode(m Mode) {
	if e.Mode() != m {
		e.logger.Info("sync: mode changed", slog.String("mode", m.String()))
	}

	e.mode.Store(int32(m))
}

// Start loads the working set. A previous session that ended offline or
// with unsaved changes resumes offline from the snapshot so those
// changes are not overwritten. Otherwise the server is tried first and
// the snapshot is the fallback when it cannot be reached or its list
// cannot be trusted.
func (e *Engine) Start(ctx context.Context) (StartResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.loadSession()

	resume := e.startOffline || ParseMode(sess.Mode) == ModeOffline || len(sess.Dirty) > 0
	if resume {
		return e.startFromSnapshot(e.repo.LoadLocalSnapshot(), sess), nil
	}

	if !e.repo.CheckConnection(ctx) {
		e.setReachable(false)
		e.logger.Warn("sync: server unreachable at startup, using local snapshot")

		return e.startFromSnapshot(e.repo.LoadLocalSnapshot(), sess), nil
	}

	e.setReachable(true)

	articles, err := e.fetchServerState(ctx)
	if err != nil {
		e.logger.Warn("sync: fetching articles at startup failed, using local snapshot",
			slog.String("error", err.Error()),
		)

		return e.startFromSnapshot(e.repo.LoadLocalSnapshot(), sess), nil
	}

	// An empty list is also what a failed fetch looks like, so it never
	// replaces a snapshot that still holds articles.
	if len(articles) == 0 {
		if local := e.repo.LoadLocalSnapshot(); len(local) > 0 {
			e.logger.Warn("sync: server returned no articles, keeping local snapshot and starting offline",
				slog.Int("local", len(local)),
			)

			return e.startFromSnapshot(local, sess), nil
		}
	}

	e.replaceFromServer(articles)
	e.markSynced()
	e.setMode(ModeOnline)
	e.autosave()
	e.persist()

	return e.startResult(SourceServer), nil
}

func (e *Engine) startFromSnapshot(articles []models.Article, sess state.Session) StartResult {
	e.restoreFromSnapshot(articles, sess)
	e.setMode(ModeOffline)
	e.persist()

	return e.startResult(SourceSnapshot)
}

func (e *Engine) startResult(src Source) StartResult {
	return StartResult{
		Mode:     e.Mode(),
		Source:   src,
		Articles: e.articles.Len(),
		Pending:  e.pendingCount(),
	}
}

func (e *Engine) loadSession() state.Session {
	sess := state.Session{Originals: make(map[int]string)}
	if e.journal == nil {
		return sess
	}

	loaded, err := e.journal.LoadSession()
	if err != nil {
		e.logger.Warn("sync: reading journal failed", slog.String("error", err.Error()))
		return sess
	}

	if loaded.Originals == nil {
		loaded.Originals = make(map[int]string)
	}

	e.lastSync = e.journal.LastSync()

	return loaded
}

// restoreFromSnapshot installs articles and takes the dirty set and
// original timestamps from sess for the ids that still exist.
func (e *Engine) restoreFromSnapshot(articles []models.Article, sess state.Session) {
	e.articles.Replace(articles)
	e.tracker.Clear()
	e.originals = make(map[int]string, len(articles))

	for _, a := range e.articles.All() {
		if ts, ok := sess.Originals[a.ID]; ok {
			e.originals[a.ID] = ts
		} else {
			e.originals[a.ID] = a.Timestamp
		}
	}

	for _, id := range sess.Dirty {
		if e.articles.Has(id) {
			e.tracker.Mark(id)
		}
	}
}

// replaceFromServer makes the server collection the working set and
// resets the original timestamps to it.
func (e *Engine) replaceFromServer(articles []models.Article) {
	e.articles.Replace(articles)
	e.originals = make(map[int]string, len(articles))

	for _, a := range articles {
		e.originals[a.ID] = a.Timestamp
	}
}

// fetchServerState returns the server collection. An empty answer is
// only trusted if the server still answers the probe, since FetchAll
// reports errors as an empty list.
func (e *Engine) fetchServerState(ctx context.Context) ([]models.Article, error) {
	articles := e.repo.FetchAll(ctx)
	if len(articles) == 0 && !e.repo.CheckConnection(ctx) {
		e.setReachable(false)
		return nil, fmt.Errorf("fetching articles: %w", apperrors.ErrUnreachable)
	}

	return articles, nil
}

func (e *Engine) markSynced() {
	e.lastSync = e.now()
	if e.journal == nil {
		return
	}

	if err := e.journal.SetLastSync(e.lastSync); err != nil {
		e.logger.Warn("sync: recording last sync failed", slog.String("error", err.Error()))
	}
}

// autosave writes the snapshot. Failures are logged only.
func (e *Engine) autosave() bool {
	if !e.repo.SaveLocalSnapshot(e.articles.All()) {
		e.logger.Warn("sync: writing local snapshot failed")
		return false
	}

	return true
}

// persist writes the journal. Failures are logged only.
func (e *Engine) persist() {
	if e.journal == nil {
		return
	}

	originals := make(map[int]string, len(e.originals))
	for id, ts := range e.originals {
		originals[id] = ts
	}

	err := e.journal.SaveSession(state.Session{
		Mode:      e.Mode().String(),
		Dirty:     e.tracker.IDs(),
		Originals: originals,
	})
	if err != nil {
		e.logger.Warn("sync: writing journal failed", slog.String("error", err.Error()))
	}
}

func (e *Engine) hasLocalChanges() bool {
	return e.tracker.Len() > 0 || len(e.articles.PendingCreations()) > 0
}

// pendingCount counts articles that still need a write. A pending
// creation that was also edited counts once.
func (e *Engine) pendingCount() int {
	n := len(e.articles.PendingCreations())
	for _, id := range e.tracker.IDs() {
		if id > 0 {
			n++
		}
	}

	return n
}

// GoOffline switches to offline mode. Nothing is sent to the server
// until the user reconnects.
func (e *Engine) GoOffline() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setMode(ModeOffline)
	e.autosave()
	e.persist()
}

// GoOnline handles the offline to online transition. Without local
// changes it pulls the server state. With local changes the user picks
// push, discard and pull, review then push, or cancel.
func (e *Engine) GoOnline(ctx context.Context) (ReconnectResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Mode() == ModeOnline {
		return ReconnectResult{Outcome: ReconnectAlreadyOnline}, nil
	}

	if !e.hasLocalChanges() {
		if err := e.pullLocked(ctx); err != nil {
			return ReconnectResult{}, err
		}

		return ReconnectResult{Outcome: ReconnectPulled}, nil
	}

	pending := e.pendingCount()
	choice := e.prompter.ChooseReconnect(ctx, pending)

	e.logger.Info("sync: reconnect choice",
		slog.String("choice", choice.String()),
		slog.Int("pending", pending),
	)

	switch choice {
	case ReconnectPush:
		report, err := e.syncLocked(ctx)
		return ReconnectResult{Outcome: ReconnectPushed, Report: report}, err

	case ReconnectDiscard:
		if err := e.pullLocked(ctx); err != nil {
			return ReconnectResult{}, err
		}

		return ReconnectResult{Outcome: ReconnectDiscarded}, nil

	case ReconnectReview:
		diffs, err := e.differencesLocked(ctx)
		if err != nil {
			return ReconnectResult{}, err
		}

		if !e.prompter.ConfirmPush(ctx, RenderDifferences(diffs, false)) {
			return ReconnectResult{Outcome: ReconnectCancelled}, nil
		}

		report, err := e.syncLocked(ctx)

		return ReconnectResult{Outcome: ReconnectPushed, Report: report}, err

	default:
		return ReconnectResult{Outcome: ReconnectCancelled}, nil
	}
}

// pullLocked replaces all local state with the server's and goes online.
func (e *Engine) pullLocked(ctx context.Context) error {
	if !e.repo.CheckConnection(ctx) {
		e.setReachable(false)
		return fmt.Errorf("pulling server state: %w", apperrors.ErrUnreachable)
	}

	articles, err := e.fetchServerState(ctx)
	if err != nil {
		return err
	}

	e.replaceFromServer(articles)
	e.tracker.Clear()
	e.markSynced()
	e.setMode(ModeOnline)
	e.setReachable(true)
	e.autosave()
	e.persist()

	return nil
}

// SyncLocalChangesToServer pushes every local change and, when all of
// it went through, reloads the server collection and goes online.
func (e *Engine) SyncLocalChangesToServer(ctx context.Context) (SyncReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.syncLocked(ctx)
}

func (e *Engine) syncLocked(ctx context.Context) (SyncReport, error) {
	if !e.repo.CheckConnection(ctx) {
		e.setReachable(false)
		return SyncReport{}, fmt.Errorf("syncing local changes: %w", apperrors.ErrUnreachable)
	}

	e.setReachable(true)

	report, err := e.forcePush(ctx, true)
	if err != nil {
		e.autosave()
		e.persist()

		return report, fmt.Errorf("syncing local changes: %w", err)
	}

	articles, err := e.fetchServerState(ctx)
	if err != nil {
		e.autosave()
		e.persist()

		return report, err
	}

	e.replaceFromServer(articles)
	e.tracker.Clear()
	e.markSynced()
	e.setMode(ModeOnline)
	e.autosave()
	e.persist()

	e.logger.Info("sync: local changes pushed",
		slog.Int("updated", report.Updated),
		slog.Int("created", report.Created),
	)

	return report, nil
}

// SaveChanges saves the dirty set. Offline it only writes the snapshot
// and keeps the dirty set for the next reconnect. Online it checks for
// conflicts first and asks the user to resolve any it finds.
func (e *Engine) SaveChanges(ctx context.Context) (SaveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLocalChanges() {
		return SaveResult{Outcome: SaveNothing}, nil
	}

	if e.Mode() == ModeOffline {
		ok := e.autosave()
		e.persist()

		if !ok {
			return SaveResult{}, apperrors.ErrSnapshotWrite
		}

		return SaveResult{Outcome: SaveLocalOnly}, nil
	}

	scan := e.detector.Detect(ctx, e.tracker.ChangedArticles(e.articles), e.originals, e.repo.FetchOne)
	if len(scan.Conflicts) > 0 {
		res, err := e.resolveConflicts(ctx, scan.Conflicts)
		res.Skipped = scan.Skipped

		return res, err
	}

	report, err := e.forcePush(ctx, false)
	e.autosave()
	e.persist()

	res := SaveResult{Outcome: SavePushed, Report: report, Skipped: scan.Skipped}
	if err != nil {
		return res, fmt.Errorf("saving changes: %w", err)
	}

	return res, nil
}

func (e *Engine) resolveConflicts(ctx context.Context, conflicts []models.Article) (SaveResult, error) {
	ids := make([]int, len(conflicts))
	reports := make([]string, len(conflicts))

	for i, server := range conflicts {
		ids[i] = server.ID
		local, _ := e.articles.Get(server.ID)
		reports[i] = e.reporter.Describe(local, &server, false)
	}

	choice := e.prompter.ResolveConflicts(ctx, strings.Join(reports, "\n\n"))

	e.logger.Info("sync: conflict resolution",
		slog.String("choice", choice.String()),
		slog.Int("conflicts", len(conflicts)),
	)

	switch choice {
	case ConflictOverwrite:
		report, err := e.forcePush(ctx, false)
		e.autosave()
		e.persist()

		res := SaveResult{Outcome: SaveOverwritten, Report: report, Conflicts: ids}
		if err != nil {
			return res, fmt.Errorf("overwriting server versions: %w", err)
		}

		return res, nil

	case ConflictAcceptServer:
		for _, server := range conflicts {
			e.articles.Put(server)
			e.tracker.Remove(server.ID)
			e.originals[server.ID] = server.Timestamp
		}

		e.autosave()
		e.persist()

		return SaveResult{Outcome: SaveAcceptedServer, Conflicts: ids}, nil

	default:
		return SaveResult{Outcome: SaveCancelled, Conflicts: ids}, nil
	}
}

// SaveLocal writes the snapshot and the journal on explicit request.
func (e *Engine) SaveLocal() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.persist()

	if !e.autosave() {
		return apperrors.ErrSnapshotWrite
	}

	return nil
}

// ReloadFromSnapshot replaces the working set with the verified local
// snapshot. Dirty ids and original timestamps are kept for articles that
// are still present.
func (e *Engine) ReloadFromSnapshot() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	articles := e.repo.LoadLocalSnapshot()
	if len(articles) == 0 {
		return 0, apperrors.ErrNoSnapshot
	}

	e.restoreFromSnapshot(articles, state.Session{
		Dirty:     e.tracker.IDs(),
		Originals: e.originals,
	})
	e.persist()

	return e.articles.Len(), nil
}

// AddArticle validates draft and adds it. Offline it gets a placeholder
// id and waits for the next sync. Online it is created right away and the
// collection is refreshed to pick up the server's id.
func (e *Engine) AddArticle(ctx context.Context, draft models.Article) (models.Article, error) {
	draft = draft.Clone()
	draft.Name = models.NormalizeText(draft.Name)
	draft.Type = models.NormalizeText(draft.Type)
	draft.Unit = models.NormalizeText(draft.Unit)
	draft.Location = models.NormalizeText(draft.Location)
	draft.Status = models.NormalizeText(draft.Status)
	draft.Link = models.NormalizeText(draft.Link)

	if err := draft.Validate(); err != nil {
		return models.Article{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Mode() == ModeOffline {
		draft.ID = e.articles.NextPlaceholderID()
		draft.Timestamp = createTimestamp(e.now())

		e.articles.Put(draft)
		e.originals[draft.ID] = draft.Timestamp
		e.autosave()
		e.persist()

		e.logger.Info("sync: article added offline", slog.Int("id", draft.ID))

		return draft, nil
	}

	draft.ID = 0
	draft.Timestamp = createTimestamp(e.now())

	status, body, err := e.repo.Create(ctx, draft)
	if err != nil {
		return models.Article{}, unreachable("create", 0, err)
	}

	if !isSuccess(status) {
		return models.Article{}, &WriteError{Op: "create", Status: status, Body: string(body)}
	}

	if err := e.refreshPreservingDirty(ctx); err != nil {
		e.logger.Warn("sync: refresh after create failed", slog.String("error", err.Error()))
	}

	e.autosave()
	e.persist()

	if id := createdID(body); id > 0 {
		if a, ok := e.articles.Get(id); ok {
			return a, nil
		}

		draft.ID = id
	}

	return draft, nil
}

// refreshPreservingDirty reloads the server collection but keeps the
// local version and original timestamp of every dirty article.
func (e *Engine) refreshPreservingDirty(ctx context.Context) error {
	fresh, err := e.fetchServerState(ctx)
	if err != nil {
		return err
	}

	merged := make([]models.Article, 0, len(fresh))
	originals := make(map[int]string, len(fresh))

	for _, server := range fresh {
		if local, ok := e.articles.Get(server.ID); ok && e.tracker.IsDirty(server.ID) {
			merged = append(merged, local)
			originals[server.ID] = e.originals[server.ID]

			continue
		}

		merged = append(merged, server)
		originals[server.ID] = server.Timestamp
	}

	for _, id := range e.tracker.IDs() {
		if id > 0 && !containsID(fresh, id) {
			e.logger.Warn("sync: dirty article no longer on server, dropping", slog.Int("id", id))
			e.tracker.Remove(id)
		}
	}

	for _, a := range e.articles.PendingCreations() {
		merged = append(merged, a)
		originals[a.ID] = e.originals[a.ID]
	}

	e.articles.Replace(merged)
	e.originals = originals

	return nil
}

func containsID(articles []models.Article, id int) bool {
	for _, a := range articles {
		if a.ID == id {
			return true
		}
	}

	return false
}

// DeleteArticle removes an article after the user confirms. It reports
// whether the article was deleted.
func (e *Engine) DeleteArticle(ctx context.Context, id int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.articles.Get(id)
	if !ok {
		return false, fmt.Errorf("deleting article %d: %w", id, apperrors.ErrNotFound)
	}

	if !e.prompter.ConfirmDelete(ctx, a) {
		return false, nil
	}

	if e.Mode() == ModeOnline && !a.IsPendingCreation() {
		status, err := e.repo.Delete(ctx, id)
		if err != nil {
			return false, unreachable("delete", id, err)
		}

		if !isSuccess(status) {
			return false, &WriteError{Op: "delete", ID: id, Status: status}
		}
	}

	e.articles.Remove(id)
	delete(e.originals, id)
	e.tracker.Remove(id)
	e.autosave()
	e.persist()

	e.logger.Info("sync: article deleted",
		slog.Int("id", id),
		slog.String("mode", e.Mode().String()),
	)

	return true, nil
}

// Differences compares every local change with the server.
func (e *Engine) Differences(ctx context.Context) ([]Difference, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.differencesLocked(ctx)
}

// CompareWithServer renders Differences as a report.
func (e *Engine) CompareWithServer(ctx context.Context, verbose bool) (string, error) {
	diffs, err := e.Differences(ctx)
	if err != nil {
		return "", err
	}

	return RenderDifferences(diffs, verbose), nil
}

func (e *Engine) differencesLocked(ctx context.Context) ([]Difference, error) {
	if !e.repo.CheckConnection(ctx) {
		e.setReachable(false)
		return nil, fmt.Errorf("comparing with server: %w", apperrors.ErrUnreachable)
	}

	server, err := e.fetchServerState(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.Article, len(server))
	for _, a := range server {
		byID[a.ID] = a
	}

	var diffs []Difference

	for _, local := range e.tracker.ChangedArticles(e.articles) {
		if local.IsPendingCreation() {
			continue
		}

		if s, ok := byID[local.ID]; ok {
			diffs = append(diffs, e.reporter.Difference(local, &s, false))
		} else {
			diffs = append(diffs, e.reporter.Difference(local, nil, false))
		}
	}

	for _, local := range e.articles.PendingCreations() {
		diffs = append(diffs, e.reporter.Difference(local, nil, true))
	}

	return diffs, nil
}

// RenderDifferences joins rendered differences into one report.
func RenderDifferences(diffs []Difference, verbose bool) string {
	if len(diffs) == 0 {
		return "No local changes."
	}

	var r DiffReporter

	parts := make([]string, len(diffs))
	for i, d := range diffs {
		parts[i] = r.Render(d, verbose)
	}

	return strings.Join(parts, "\n\n")
}

// Articles returns a copy of the working set in display order.
func (e *Engine) Articles() []models.Article {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.articles.All()
}

// Article returns a copy of one article.
func (e *Engine) Article(id int) (models.Article, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.articles.Get(id)
}

// ArticleAtRow maps a 1-based display row to its article.
func (e *Engine) ArticleAtRow(row int) (models.Article, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.articles.ArticleAtRow(row)
}

// ChangedArticles returns the dirty articles in id order.
func (e *Engine) ChangedArticles() []models.Article {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.tracker.ChangedArticles(e.articles)
}

// IsDirty reports whether the article has unsaved changes.
func (e *Engine) IsDirty(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.tracker.IsDirty(id)
}

// PendingChanges lists everything the next push would write.
type PendingChanges struct {
	Updates   []models.Article `json:"updates"`
	Creations []models.Article `json:"creations"`
}

// Pending returns the dirty server-known articles and the pending creations.
func (e *Engine) Pending() PendingChanges {
	e.mu.Lock()
	defer e.mu.Unlock()

	var p PendingChanges

	for _, a := range e.tracker.ChangedArticles(e.articles) {
		if !a.IsPendingCreation() {
			p.Updates = append(p.Updates, a)
		}
	}

	p.Creations = e.articles.PendingCreations()

	return p
}

// PendingCreations returns the articles waiting to be created.
func (e *Engine) PendingCreations() []models.Article {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.articles.PendingCreations()
}

// OriginalTimestamp returns the server timestamp recorded for id.
func (e *Engine) OriginalTimestamp(id int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ts, ok := e.originals[id]

	return ts, ok
}

// Status summarizes the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	st := Status{
		Mode:             e.Mode().String(),
		Articles:         e.articles.Len(),
		Dirty:            e.tracker.Len(),
		PendingCreations: len(e.articles.PendingCreations()),
		LastSync:         e.lastSync,
	}
	e.mu.Unlock()

	e.statusMu.Lock()
	st.Reachable = e.reachable
	st.LastCheck = e.lastCheck
	e.statusMu.Unlock()

	return st
}

// CheckConnection probes the server and records the answer. It does not
// wait for a running operation and never changes the mode.
func (e *Engine) CheckConnection(ctx context.Context) bool {
	ok := e.repo.CheckConnection(ctx)
	e.setReachable(ok)

	return ok
}

func (e *Engine) setReachable(ok bool) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.reachable = ok
	e.lastCheck = e.now()
}

// SortedIDs is a helper for hosts that list ids.
func SortedIDs(articles []models.Article) []int {
	ids := make([]int, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}

	sort.Ints(ids)

	return ids
}

// IsUnreachable reports whether err means the server could not be reached.
func IsUnreachable(err error) bool {
	return errors.Is(err, apperrors.ErrUnreachable)
}
