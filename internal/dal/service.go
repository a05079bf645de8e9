package dal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/metrics"
	"designer-dashboard-backend/internal/model"
	"designer-dashboard-backend/internal/store"
)

// ErrNotFound is returned when updating a scene object that does not exist.
var ErrNotFound = errors.New("object not found")

// Option configures a Service.
type Option func(*Service)

// WithLatency delays every operation by d before it touches state.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithIDGenerator replaces the uuid generator used for new entities.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = logging.OrNop(l) }
}

// Service is the only writer of the designer and scene object collections.
// Every Object mutation adjusts the attached designer counters in the same
// step, and nothing becomes visible until it has been persisted.
type Service struct {
	mu        sync.Mutex
	store     store.Store
	latency   time.Duration
	newID     func() string
	log       *zap.Logger
	designers []model.Designer
	objects   []model.SceneObject
}

// New loads both collections from st and returns a ready Service.
// Unreadable collections start empty.
func New(ctx context.Context, st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var outcome store.Outcome
	s.designers, outcome = store.LoadCollection[model.Designer](ctx, st, store.CollectionDesigners)
	s.logLoad(store.CollectionDesigners, len(s.designers), outcome)
	s.objects, outcome = store.LoadCollection[model.SceneObject](ctx, st, store.CollectionObjects)
	s.logLoad(store.CollectionObjects, len(s.objects), outcome)

	metrics.Designers.Set(float64(len(s.designers)))
	metrics.Objects.Set(float64(len(s.objects)))
	return s
}

func (s *Service) logLoad(collection string, n int, outcome store.Outcome) {
	switch outcome.Status {
	case store.Loaded:
		s.log.Info("collection loaded", zap.String("collection", collection), zap.Int("count", n))
	case store.Missing:
		s.log.Info("collection not found, starting empty", zap.String("collection", collection))
	default:
		s.log.Warn("collection unreadable, starting empty",
			zap.String("collection", collection),
			zap.Stringer("status", outcome.Status),
			zap.Error(outcome.Cause))
	}
}

// ListDesigners returns copies of all designers in insertion order.
func (s *Service) ListDesigners(ctx context.Context) ([]model.Designer, error) {
	defer s.observe("list_designers", time.Now(), nil)
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.designers), nil
}

// Designer looks up one designer by id.
func (s *Service) Designer(ctx context.Context, id string) (model.Designer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfDesigner(s.designers, id)
	if i < 0 {
		return model.Designer{}, false
	}
	return s.designers[i], true
}

// CreateDesigner appends a designer with no attached objects.
func (s *Service) CreateDesigner(ctx context.Context, in model.NewDesigner) (d model.Designer, err error) {
	defer func(start time.Time) { s.observe("create_designer", start, err) }(time.Now())
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()

	d = model.Designer{
		ID:           s.newID(),
		FullName:     in.FullName,
		WorkingHours: in.WorkingHours,
	}
	designers := append(clone(s.designers), d)
	if err := s.commit(ctx, designers, s.objects); err != nil {
		return model.Designer{}, err
	}
	s.log.Debug("designer created", zap.String("id", d.ID))
	return d, nil
}

// DeleteDesigner removes a designer. Objects referencing it are left as they
// are. Unknown ids are a no-op.
func (s *Service) DeleteDesigner(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete_designer", start, err) }(time.Now())
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfDesigner(s.designers, id)
	if i < 0 {
		return nil
	}
	designers := removeAt(s.designers, i)
	if err := s.commit(ctx, designers, s.objects); err != nil {
		return err
	}
	s.log.Debug("designer deleted", zap.String("id", id))
	return nil
}

// ListObjects returns copies of all scene objects in insertion order.
func (s *Service) ListObjects(ctx context.Context) ([]model.SceneObject, error) {
	defer s.observe("list_objects", time.Now(), nil)
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.objects), nil
}

// CreateObject appends a scene object and increments its designer's counter
// when that designer exists.
func (s *Service) CreateObject(ctx context.Context, in model.NewObject) (o model.SceneObject, err error) {
	defer func(start time.Time) { s.observe("create_object", start, err) }(time.Now())
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()

	o = model.SceneObject{
		ID:         s.newID(),
		Name:       in.Name,
		DesignerID: in.DesignerID,
		Color:      in.Color,
		Position:   in.Position,
		Size:       in.Size,
	}
	designers := clone(s.designers)
	adjustCount(designers, o.DesignerID, +1)
	objects := append(clone(s.objects), o)

	if err := s.commit(ctx, designers, objects); err != nil {
		return model.SceneObject{}, err
	}
	s.log.Debug("object created", zap.String("id", o.ID), zap.String("designer_id", o.DesignerID))
	return o, nil
}

// UpdateObject applies patch to the object with the given id. Moving the
// object to another designer decrements the old counter (never below zero)
// and increments the new one, each only if that designer exists.
func (s *Service) UpdateObject(ctx context.Context, id string, patch model.ObjectPatch) (o model.SceneObject, err error) {
	defer func(start time.Time) { s.observe("update_object", start, err) }(time.Now())
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfObject(s.objects, id)
	if i < 0 {
		return model.SceneObject{}, fmt.Errorf("update object %s: %w", id, ErrNotFound)
	}

	old := s.objects[i]
	designers := s.designers
	if patch.Reassigns(old) {
		designers = clone(s.designers)
		adjustCount(designers, old.DesignerID, -1)
		adjustCount(designers, *patch.DesignerID, +1)
	}

	objects := clone(s.objects)
	objects[i] = patch.Apply(old)
	objects[i].ID = old.ID

	if err := s.commit(ctx, designers, objects); err != nil {
		return model.SceneObject{}, err
	}
	return objects[i], nil
}

// DeleteObject removes a scene object and decrements its designer's counter
// (never below zero). Unknown ids are a no-op.
func (s *Service) DeleteObject(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete_object", start, err) }(time.Now())
	s.delay()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfObject(s.objects, id)
	if i < 0 {
		return nil
	}
	designers := clone(s.designers)
	adjustCount(designers, s.objects[i].DesignerID, -1)
	objects := removeAt(s.objects, i)

	if err := s.commit(ctx, designers, objects); err != nil {
		return err
	}
	s.log.Debug("object deleted", zap.String("id", id))
	return nil
}

// Reconcile recomputes every designer's attached object count from the
// objects collection and persists the result if anything changed. It returns
// the number of designers whose count was corrected.
func (s *Service) Reconcile(ctx context.Context) (fixed int, err error) {
	defer func(start time.Time) { s.observe("reconcile", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.designers))
	for _, o := range s.objects {
		counts[o.DesignerID]++
	}

	designers := clone(s.designers)
	for i := range designers {
		if want := counts[designers[i].ID]; designers[i].AttachedObjectsCount != want {
			s.log.Info("correcting attached object count",
				zap.String("designer_id", designers[i].ID),
				zap.Int("was", designers[i].AttachedObjectsCount),
				zap.Int("now", want))
			designers[i].AttachedObjectsCount = want
			fixed++
		}
	}
	if fixed == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, designers, s.objects); err != nil {
		return 0, err
	}
	return fixed, nil
}

// commit persists both collections and, only on success, makes them current.
// Callers hold s.mu. Persistence is not abandoned when ctx is cancelled.
func (s *Service) commit(ctx context.Context, designers []model.Designer, objects []model.SceneObject) error {
	designersRaw, err := store.Encode(designers)
	if err != nil {
		return fmt.Errorf("encode designers: %w", err)
	}
	objectsRaw, err := store.Encode(objects)
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}

	if err := s.store.Save(context.WithoutCancel(ctx), map[string][]byte{
		store.CollectionDesigners: designersRaw,
		store.CollectionObjects:   objectsRaw,
	}); err != nil {
		s.log.Error("persist failed", zap.Error(err))
		return fmt.Errorf("persist: %w", err)
	}

	s.designers = designers
	s.objects = objects
	metrics.Designers.Set(float64(len(designers)))
	metrics.Objects.Set(float64(len(objects)))
	return nil
}

func (s *Service) delay() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}

func (s *Service) observe(op string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.DALOperations.WithLabelValues(op, status).Inc()
	metrics.DALDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// adjustCount adds delta to the designer's counter, flooring at zero.
// Missing designers are ignored.
func adjustCount(designers []model.Designer, id string, delta int) {
	i := indexOfDesigner(designers, id)
	if i < 0 {
		return
	}
	designers[i].AttachedObjectsCount += delta
	if designers[i].AttachedObjectsCount < 0 {
		designers[i].AttachedObjectsCount = 0
	}
}

func indexOfDesigner(designers []model.Designer, id string) int {
	for i := range designers {
		if designers[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfObject(objects []model.SceneObject, id string) int {
	for i := range objects {
		if objects[i].ID == id {
			return i
		}
	}
	return -1
}

// clone copies a slice of plain values; the result never aliases in.
func clone[T any](in []T) []T {
	return append(make([]T, 0, len(in)+1), in...)
}

func removeAt[T any](in []T, i int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:i]...)
	return append(out, in[i+1:]...)
}
