package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrNoProvider is the panic value when a CartStore is used without
	// having been built by NewCartStore.
	ErrNoProvider = errors.New("cart store must be created with NewCartStore before use")
	// ErrClosed is the panic value for mutations issued after Close.
	ErrClosed = errors.New("cart store is closed")
)

const (
	opAdd       = "add"
	opIncrement = "increment"
	opDecrement = "decrement"
	opClear     = "clear"
)

type Option func(*CartStore)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *CartStore) { s.metrics = m }
}

// WithWriteTimeout bounds each durable write. Zero means no bound.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *CartStore) { s.writeTimeout = d }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *CartStore) { s.tracer = t }
}

// Update is what listeners receive: the cart after a change and the
// version that change produced. Versions grow by one per change, so a
// listener can drop anything older than what it already holds.
type Update struct {
	Version uint64
	Cart    entity.Cart
}

// snapshot is one pending durable write. clear means remove the key
// instead of storing cart.
type snapshot struct {
	version uint64
	cart    entity.Cart
	clear   bool
}

// CartStore is the single authoritative in-memory cart plus its durable
// mirror. Mutations are applied synchronously under mu and return the new
// cart; the durable write happens on a background writer that always
// stores the most recent snapshot, so writes never go out of order.
type CartStore struct {
	repo         repository.CartRepository
	log          logger.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	writeTimeout time.Duration

	initOnce sync.Once

	mu        sync.Mutex
	cart      entity.Cart
	version   uint64
	pending   *snapshot
	attempted uint64
	lastErr   error
	progress  chan struct{}
	closed    bool
	listeners map[int]func(Update)
	nextID    int

	// notified is the highest version handed to listeners.
	notified atomic.Uint64

	wake chan struct{}
	done chan struct{}
}

// NewCartStore builds the store and starts its writer goroutine. The cart
// starts empty; call Initialize to load the previous session.
func NewCartStore(repo repository.CartRepository, log logger.Logger, opts ...Option) *CartStore {
	if repo == nil {
		panic("service: NewCartStore requires a CartRepository")
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &CartStore{
		repo:      repo,
		log:       log,
		tracer:    otel.Tracer("cart-store/service"),
		progress:  make(chan struct{}),
		listeners: make(map[int]func(Update)),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// Initialize loads the persisted cart. It runs once; later calls return
// immediately. Missing, malformed or unreadable data all leave the cart
// empty and are only logged.
func (s *CartStore) Initialize(ctx context.Context) {
	s.mustBeUsable()
	s.initOnce.Do(func() { s.load(ctx) })
}

func (s *CartStore) load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CartStore.Initialize")
	defer span.End()

	loaded, err := s.repo.Load(ctx)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrMalformedSnapshot) {
			s.log.Warnf("Discarding malformed persisted cart, starting empty: %v", err)
			s.metrics.ObserveLoad(metrics.LoadMalformed, 0)
		} else {
			s.log.Errorf("Failed to read persisted cart, starting empty: %v", err)
			s.metrics.ObserveLoad(metrics.LoadFailed, 0)
		}
		return
	}

	s.mu.Lock()
	if s.version > 0 {
		// the user already changed the cart; keep what they see
		lines := s.cart.Len()
		s.mu.Unlock()
		s.log.Warnf("Cart was modified before the persisted copy finished loading; keeping in-memory cart (%d lines)", lines)
		s.metrics.ObserveLoad(metrics.LoadDiscarded, lines)
		return
	}
	s.cart = loaded
	listeners := s.listenerList()
	version := s.version
	s.mu.Unlock()

	if loaded.IsEmpty() {
		s.metrics.ObserveLoad(metrics.LoadEmpty, 0)
		s.log.Debug("No persisted cart found")
		return
	}
	s.metrics.ObserveLoad(metrics.LoadLoaded, loaded.Len())
	s.log.Infof("Loaded persisted cart: %d lines, %d items", loaded.Len(), loaded.ItemCount())
	s.notify(listeners, Update{Version: version, Cart: loaded})
}

// Cart returns the current cart value.
func (s *CartStore) Cart() entity.Cart {
	s.mustBeUsable()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Products returns the current line items in order.
func (s *CartStore) Products() []entity.LineItem {
	return s.Cart().Items()
}

// AddToCart merges candidate into the cart and returns the updated cart.
// A candidate with a NaN or infinite price is refused and the cart is
// returned unchanged.
func (s *CartStore) AddToCart(candidate entity.LineItem) entity.Cart {
	return s.apply(opAdd, func(c entity.Cart) (entity.Cart, bool) {
		if err := candidate.Validate(); err != nil {
			s.log.Warnf("Refusing to add item to cart: %v", err)
			return c, false
		}
		return c.AddItem(candidate), true
	})
}

// Increment bumps the quantity of id. Unknown ids change nothing.
func (s *CartStore) Increment(id string) entity.Cart {
	return s.apply(opIncrement, func(c entity.Cart) (entity.Cart, bool) {
		return c.Increment(id)
	})
}

// Decrement lowers the quantity of id, removing the line at one.
// Unknown ids change nothing.
func (s *CartStore) Decrement(id string) entity.Cart {
	return s.apply(opDecrement, func(c entity.Cart) (entity.Cart, bool) {
		return c.Decrement(id)
	})
}

// Clear empties the cart and removes the persisted key.
func (s *CartStore) Clear() entity.Cart {
	s.mustBeUsable()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic(ErrClosed)
	}
	s.cart = entity.NewCart()
	s.version++
	version := s.version
	s.enqueue(&snapshot{version: version, cart: s.cart, clear: true})
	listeners := s.listenerList()
	s.mu.Unlock()

	s.metrics.ObserveMutation(opClear, true, 0)
	s.notify(listeners, Update{Version: version, Cart: entity.NewCart()})
	return entity.NewCart()
}

// apply runs reduce against the current cart under the lock. The value
// queued for persistence is the one reduce returned, never a copy taken
// before the update.
func (s *CartStore) apply(op string, reduce func(entity.Cart) (entity.Cart, bool)) entity.Cart {
	s.mustBeUsable()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic(ErrClosed)
	}

	next, changed := reduce(s.cart)
	if !changed {
		s.mu.Unlock()
		s.metrics.ObserveMutation(op, false, next.Len())
		return next
	}

	s.cart = next
	s.version++
	version := s.version
	s.enqueue(&snapshot{version: version, cart: next})
	listeners := s.listenerList()
	s.mu.Unlock()

	s.metrics.ObserveMutation(op, true, next.Len())
	s.notify(listeners, Update{Version: version, Cart: next})
	return next
}

// Subscribe registers fn to receive every change. Calls happen on the
// mutating goroutine after the store lock is released, so fn may call back
// into the store. An update older than one already delivered is dropped;
// when mutations race, a late call can still land after a newer one, and
// fn should ignore any Version below the highest it has seen.
func (s *CartStore) Subscribe(fn func(Update)) (cancel func()) {
	s.mustBeUsable()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Version is the number of changes applied so far.
func (s *CartStore) Version() uint64 {
	s.mustBeUsable()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Flush waits until the latest cart version has been written and returns
// the error of that write, if any.
func (s *CartStore) Flush(ctx context.Context) error {
	s.mustBeUsable()
	for {
		s.mu.Lock()
		if s.pending == nil && s.attempted >= s.version {
			err := s.lastErr
			s.mu.Unlock()
			return err
		}
		ch := s.progress
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close flushes outstanding writes and stops the writer. The repository is
// not closed; it belongs to the caller.
func (s *CartStore) Close(ctx context.Context) error {
	s.mustBeUsable()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	flushErr := s.Flush(ctx)

	s.mu.Lock()
	close(s.wake)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return flushErr
}

func (s *CartStore) mustBeUsable() {
	if s == nil || s.repo == nil {
		panic(ErrNoProvider)
	}
}

// enqueue replaces any pending snapshot with snap and wakes the writer.
// Callers hold mu.
func (s *CartStore) enqueue(snap *snapshot) {
	s.pending = snap
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *CartStore) listenerList() []func(Update) {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]func(Update), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func (s *CartStore) notify(listeners []func(Update), u Update) {
	for {
		last := s.notified.Load()
		if u.Version < last {
			return
		}
		if s.notified.CompareAndSwap(last, u.Version) {
			break
		}
	}
	for _, fn := range listeners {
		fn(u)
	}
}
