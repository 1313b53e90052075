package layout

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/observability"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Port is the persistence endpoint the store reads and writes. Get returns an
// error carrying errors.ErrCodeNotFound when the workspace has no layout.
type Port interface {
	Get(ctx context.Context, workspaceID string) ([]byte, error)
	Put(ctx context.Context, workspaceID string, data []byte) error
}

// Options configures a Store.
type Options struct {
	Canvas geom.Canvas
	Logger *log.Logger
}

// Store owns the in-memory layout of one workspace.
//
// The store is the source of truth for rendering. Writes to the port happen
// in the background and never block callers.
type Store struct {
	port   Port
	canvas geom.Canvas
	logger *log.Logger

	mu     sync.Mutex
	layout *Layout
	seq    uint64 // numbers snapshots in Save order

	writeMu sync.Mutex
	written uint64 // highest seq that reached the port
	pending sync.WaitGroup
}

// NewStore returns a store backed by port. A zero canvas is replaced by the
// default canvas and a nil logger discards output.
func NewStore(port Port, opts Options) *Store {
	if opts.Canvas == (geom.Canvas{}) {
		opts.Canvas = geom.DefaultCanvas()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Store{
		port:   port,
		canvas: opts.Canvas,
		logger: opts.Logger,
		layout: New(""),
	}
}

// Canvas returns the canvas the store places instances on.
func (s *Store) Canvas() geom.Canvas { return s.canvas }

// Load fetches the layout of workspaceID and makes it the current layout.
// A missing layout, a failed read or an undecodable payload all yield an
// empty layout. A legacy layout is migrated and saved once.
func (s *Store) Load(ctx context.Context, workspaceID string) *Layout {
	start := time.Now()
	l, migrated, err := s.fetch(ctx, workspaceID)
	if err != nil {
		s.logger.Warn("layout unavailable, starting empty", "workspace", workspaceID, "err", err)
		l = New(workspaceID)
	}
	if verr := l.Validate(s.canvas); verr != nil {
		s.logger.Warn("loaded layout violates constraints", "workspace", workspaceID, "err", verr)
	}
	observability.Store().OnLoad(ctx, workspaceID, len(l.Widgets), migrated, time.Since(start), err)

	s.mu.Lock()
	s.layout = l
	out := l.Clone()
	s.mu.Unlock()

	if migrated {
		s.logger.Info("migrated legacy layout", "workspace", workspaceID, "widgets", len(l.Widgets))
		s.Save(ctx)
	}
	return out
}

func (s *Store) fetch(ctx context.Context, workspaceID string) (*Layout, bool, error) {
	if err := errors.ValidateWorkspaceID(workspaceID); err != nil {
		return nil, false, err
	}
	data, err := s.port.Get(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return New(workspaceID), false, nil
		}
		return nil, false, err
	}
	return Parse(data, workspaceID, s.canvas)
}

// Layout returns a copy of the current layout.
func (s *Store) Layout() *Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Clone()
}

// Instances returns copies of the current instances in layout order.
func (s *Store) Instances() []widget.Instance {
	return s.Layout().Widgets
}

// Instance returns a copy of one instance.
func (s *Store) Instance(instanceID string) (widget.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Instance(instanceID)
}

// Save writes a snapshot of the current layout in the background. Errors are
// logged and not retried. If saves overlap, a snapshot never overwrites a
// newer one that already reached the port.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	snap := s.layout.Clone()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	data, err := Encode(snap)
	if err != nil {
		s.logger.Error("encode layout", "workspace", snap.WorkspaceID, "err", err)
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.write(ctx, snap.WorkspaceID, seq, data)
	}()
}

func (s *Store) write(ctx context.Context, workspaceID string, seq uint64, data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq < s.written {
		s.logger.Debug("skipping stale layout snapshot", "workspace", workspaceID, "seq", seq)
		return
	}

	start := time.Now()
	err := s.port.Put(ctx, workspaceID, data)
	observability.Store().OnSave(ctx, workspaceID, len(data), time.Since(start), err)
	if err != nil {
		s.logger.Error("save layout", "workspace", workspaceID, "err", err)
		return
	}
	s.written = seq
	s.logger.Debug("saved layout", "workspace", workspaceID, "bytes", len(data))
}

// Flush blocks until every pending write has finished.
func (s *Store) Flush() {
	s.pending.Wait()
}

// FindPlacement returns a non-overlapping origin for a w x h instance in the
// current layout.
func (s *Store) FindPlacement(w, h int) geom.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FindPlacement(s.canvas, s.layout.Widgets, w, h)
}

// AddInstance appends inst to the layout and saves. An unplaced instance is
// positioned with FindPlacement; its size is raised to the minimum first.
func (s *Store) AddInstance(ctx context.Context, inst widget.Instance) (widget.Instance, error) {
	if inst.InstanceID == "" {
		return widget.Instance{}, errors.New(errors.ErrCodeInvalidInput, "instance has no id")
	}
	inst = inst.Clone()
	inst.Width = max(inst.Width, widget.MinWidth)
	inst.Height = max(inst.Height, widget.MinHeight)

	s.mu.Lock()
	if _, ok := s.layout.Index(inst.InstanceID); ok {
		s.mu.Unlock()
		return widget.Instance{}, errors.New(errors.ErrCodeInvalidInput, "instance %s already exists", inst.InstanceID)
	}
	if !inst.Placed() {
		p := FindPlacement(s.canvas, s.layout.Widgets, inst.Width, inst.Height)
		inst.X, inst.Y = p.X, p.Y
	} else {
		for _, w := range s.layout.Widgets {
			if geom.Overlaps(w.Rect(), inst.Rect()) {
				s.mu.Unlock()
				return widget.Instance{}, errors.New(errors.ErrCodeInvalidGeometry, "instance %s overlaps %s", inst.InstanceID, w.InstanceID)
			}
		}
	}
	s.layout.Widgets = append(s.layout.Widgets, inst)
	s.mu.Unlock()

	s.logger.Info("added widget", "workspace", s.workspaceID(), "instance", inst.InstanceID, "widget", inst.WidgetID)
	s.Save(ctx)
	return inst.Clone(), nil
}

// RemoveInstance deletes an instance and saves.
func (s *Store) RemoveInstance(ctx context.Context, instanceID string) error {
	s.mu.Lock()
	i, ok := s.layout.Index(instanceID)
	if !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", instanceID)
	}
	s.layout.Widgets = append(s.layout.Widgets[:i], s.layout.Widgets[i+1:]...)
	s.mu.Unlock()

	s.logger.Info("removed widget", "workspace", s.workspaceID(), "instance", instanceID)
	s.Save(ctx)
	return nil
}

// SaveInstance stores the settings of inst and saves. Geometry in inst is
// ignored: only committed gestures move instances.
func (s *Store) SaveInstance(ctx context.Context, inst widget.Instance) error {
	s.mu.Lock()
	i, ok := s.layout.Index(inst.InstanceID)
	if !ok {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", inst.InstanceID)
	}
	s.layout.Widgets[i].Settings = inst.Clone().Settings
	s.mu.Unlock()

	s.Save(ctx)
	return nil
}

// Commit writes a batch of geometry changes. Either every rect is applied or,
// when an id is unknown, none is. Commit does not save.
func (s *Store) Commit(rects map[string]geom.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make(map[string]int, len(rects))
	for id := range rects {
		i, ok := s.layout.Index(id)
		if !ok {
			return errors.New(errors.ErrCodeInstanceNotFound, "instance %s not found", id)
		}
		idx[id] = i
	}
	for id, r := range rects {
		s.layout.Widgets[idx[id]].SetRect(r)
	}
	return nil
}

// Replace swaps in a whole layout, for imports and remote clients, and saves.
// The layout must pass Validate.
func (s *Store) Replace(ctx context.Context, l *Layout) error {
	if err := l.Validate(s.canvas); err != nil {
		return err
	}
	l = l.Clone()
	l.Version = VersionFreeform

	s.mu.Lock()
	if l.WorkspaceID == "" {
		l.WorkspaceID = s.layout.WorkspaceID
	}
	s.layout = l
	s.mu.Unlock()

	s.Save(ctx)
	return nil
}

func (s *Store) workspaceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.WorkspaceID
}
