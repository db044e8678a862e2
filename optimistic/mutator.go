// Package optimistic implements the apply/confirm/rollback primitive behind
// latency-hiding UI updates: a local state change is rendered before the
// remote call settles, then kept, replaced by the server's authoritative
// value, or rolled back.
package optimistic

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cppla/contentcorner/utils"
)

// ErrMutationPending rejects a second mutation on the same entity field while
// one is still in flight. Triggers are rejected, never queued, so a double
// click cannot double-count or roll back out of order.
var ErrMutationPending = errors.New("mutation already pending for this field")

// Key identifies one mutable field of one entity.
type Key struct {
	Entity string
	ID     uint
	Field  string
}

// Target is the local view holding the state a mutation speculates on. Apply
// renders the given state immediately. Alive reports whether the view still
// exists; a target torn down by navigation makes reconciliation a no-op.
type Target[S any] interface {
	State() S
	Apply(S)
	Alive() bool
}

// Mutation describes one speculative change. Transform computes the desired
// state from the current one; Commit performs the remote call and may return
// an authoritative replacement state (ok=true) that wins over the optimistic
// value.
type Mutation[S any] struct {
	Key       Key
	Transform func(S) S
	Commit    func(context.Context, S) (S, bool, error)
}

// Outcome reports how a mutation settled.
type Outcome[S any] struct {
	ID         uuid.UUID
	Key        Key
	State      S
	RolledBack bool
	Err        error
}

// Gate enforces at most one in-flight mutation per key.
type Gate struct {
	mu       sync.Mutex
	inflight map[Key]struct{}
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{inflight: map[Key]struct{}{}}
}

// Pending reports whether a mutation on key is in flight. This is the
// disabled state of the triggering control.
func (g *Gate) Pending(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[key]
	return ok
}

func (g *Gate) acquire(key Key) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inflight[key]; ok {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *Gate) release(key Key) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, key)
}

// Run applies the mutation speculatively, renders it, and issues the remote
// call in the background. done fires exactly once when the call settles, in
// settle order relative to other mutations. Returns ErrMutationPending when
// the key is gated; in that case nothing was applied and no call was sent.
func Run[S any](ctx context.Context, gate *Gate, target Target[S], m Mutation[S], done func(Outcome[S])) (uuid.UUID, error) {
	if !gate.acquire(m.Key) {
		return uuid.Nil, ErrMutationPending
	}

	id := uuid.New()
	previous := target.State()
	desired := m.Transform(previous)
	target.Apply(desired)

	if utils.Sugar != nil {
		utils.Sugar.Debugw("mutation applied",
			"mutation_id", id, "entity", m.Key.Entity, "entity_id", m.Key.ID, "field", m.Key.Field)
	}

	go func() {
		defer gate.release(m.Key)

		authoritative, ok, err := m.Commit(ctx, desired)
		alive := target.Alive()

		if err != nil {
			if alive {
				target.Apply(previous)
			}
			if utils.Sugar != nil {
				utils.Sugar.Warnw("mutation rolled back",
					"mutation_id", id, "entity", m.Key.Entity, "entity_id", m.Key.ID,
					"field", m.Key.Field, "alive", alive, "err", err)
			}
			if done != nil {
				done(Outcome[S]{ID: id, Key: m.Key, State: previous, RolledBack: true, Err: err})
			}
			return
		}

		final := desired
		if ok {
			final = authoritative
			if alive {
				target.Apply(final)
			}
		}
		if utils.Sugar != nil {
			utils.Sugar.Debugw("mutation committed",
				"mutation_id", id, "entity", m.Key.Entity, "entity_id", m.Key.ID,
				"field", m.Key.Field, "authoritative", ok, "alive", alive)
		}
		if done != nil {
			done(Outcome[S]{ID: id, Key: m.Key, State: final})
		}
	}()

	return id, nil
}
