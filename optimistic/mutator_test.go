package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type likeState struct {
	liked bool
	count int
}

type fakeView struct {
	mu      sync.Mutex
	state   likeState
	alive   bool
	applies int
}

func newFakeView(state likeState) *fakeView {
	return &fakeView{state: state, alive: true}
}

func (v *fakeView) State() likeState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *fakeView) Apply(s likeState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = s
	v.applies++
}

func (v *fakeView) Alive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alive
}

func (v *fakeView) kill() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alive = false
}

func toggle(s likeState) likeState {
	if s.liked {
		return likeState{liked: false, count: s.count - 1}
	}
	return likeState{liked: true, count: s.count + 1}
}

func likeKey(id uint) Key {
	return Key{Entity: "post", ID: id, Field: "like"}
}

func TestRollbackRestoresExactPriorState(t *testing.T) {
	for _, initial := range []likeState{
		{liked: true, count: 5},
		{liked: false, count: 0},
	} {
		view := newFakeView(initial)
		gate := NewGate()
		settled := make(chan Outcome[likeState], 1)

		_, err := Run(context.Background(), gate, view, Mutation[likeState]{
			Key:       likeKey(1),
			Transform: toggle,
			Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
				return likeState{}, false, errors.New("boom")
			},
		}, func(o Outcome[likeState]) { settled <- o })
		assert.Equal(t, err, nil)

		outcome := <-settled
		assert.Equal(t, outcome.RolledBack, true)
		assert.NotEqual(t, outcome.Err, nil)
		assert.Equal(t, view.State(), initial)
		assert.Equal(t, gate.Pending(likeKey(1)), false)
	}
}

func TestSecondTriggerRejectedWhilePending(t *testing.T) {
	view := newFakeView(likeState{liked: false, count: 3})
	gate := NewGate()

	block := make(chan struct{})
	calls := 0
	var callsMu sync.Mutex

	settled := make(chan Outcome[likeState], 1)
	_, err := Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(7),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			callsMu.Lock()
			calls++
			callsMu.Unlock()
			<-block
			return likeState{}, false, nil
		},
	}, func(o Outcome[likeState]) { settled <- o })
	assert.Equal(t, err, nil)
	assert.Equal(t, gate.Pending(likeKey(7)), true)

	// second toggle on the same post while the first is in flight
	_, err = Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(7),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			callsMu.Lock()
			calls++
			callsMu.Unlock()
			return likeState{}, false, nil
		},
	}, nil)
	assert.Equal(t, err, ErrMutationPending)

	// a different post is not gated
	_, err = Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(8),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			return likeState{}, false, nil
		},
	}, nil)
	assert.Equal(t, err, nil)

	close(block)
	<-settled

	callsMu.Lock()
	assert.Equal(t, calls, 1)
	callsMu.Unlock()
	assert.Equal(t, gate.Pending(likeKey(7)), false)
}

func TestAuthoritativeStateWins(t *testing.T) {
	view := newFakeView(likeState{liked: false, count: 3})
	gate := NewGate()
	settled := make(chan Outcome[likeState], 1)

	_, err := Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(2),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			// concurrent likers on the server pushed the count past our delta
			return likeState{liked: true, count: 9}, true, nil
		},
	}, func(o Outcome[likeState]) { settled <- o })
	assert.Equal(t, err, nil)

	outcome := <-settled
	assert.Equal(t, outcome.Err, nil)
	assert.Equal(t, view.State(), likeState{liked: true, count: 9})
}

func TestOptimisticValueKeptWithoutAuthoritativeState(t *testing.T) {
	view := newFakeView(likeState{liked: false, count: 3})
	gate := NewGate()
	settled := make(chan Outcome[likeState], 1)

	_, err := Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(2),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			return likeState{}, false, nil
		},
	}, func(o Outcome[likeState]) { settled <- o })
	assert.Equal(t, err, nil)

	<-settled
	assert.Equal(t, view.State(), likeState{liked: true, count: 4})
	// one render for the optimistic apply, none at reconciliation
	assert.Equal(t, view.applies, 1)
}

func TestTornDownTargetSkipsReconciliation(t *testing.T) {
	view := newFakeView(likeState{liked: false, count: 3})
	gate := NewGate()

	block := make(chan struct{})
	settled := make(chan Outcome[likeState], 1)
	_, err := Run(context.Background(), gate, view, Mutation[likeState]{
		Key:       likeKey(4),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			<-block
			return likeState{}, false, errors.New("timeout")
		},
	}, func(o Outcome[likeState]) { settled <- o })
	assert.Equal(t, err, nil)

	// user navigates away before the call settles
	view.kill()
	close(block)

	outcome := <-settled
	assert.Equal(t, outcome.RolledBack, true)

	// the optimistic apply happened, the rollback render did not
	view.mu.Lock()
	assert.Equal(t, view.applies, 1)
	view.mu.Unlock()
	assert.Equal(t, gate.Pending(likeKey(4)), false)
}

func TestSettleOrderIndependentAcrossEntities(t *testing.T) {
	viewA := newFakeView(likeState{liked: false, count: 1})
	viewB := newFakeView(likeState{liked: false, count: 1})
	gate := NewGate()

	releaseA := make(chan struct{})
	settledA := make(chan Outcome[likeState], 1)
	settledB := make(chan Outcome[likeState], 1)

	_, err := Run(context.Background(), gate, viewA, Mutation[likeState]{
		Key:       likeKey(10),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			<-releaseA
			return likeState{}, false, nil
		},
	}, func(o Outcome[likeState]) { settledA <- o })
	assert.Equal(t, err, nil)

	_, err = Run(context.Background(), gate, viewB, Mutation[likeState]{
		Key:       likeKey(11),
		Transform: toggle,
		Commit: func(ctx context.Context, desired likeState) (likeState, bool, error) {
			return likeState{}, false, nil
		},
	}, func(o Outcome[likeState]) { settledB <- o })
	assert.Equal(t, err, nil)

	// B settles before A was issued first; both reconcile cleanly
	select {
	case o := <-settledB:
		assert.Equal(t, o.Err, nil)
	case <-time.After(5 * time.Second):
		t.Fatal("second mutation never settled")
	}
	close(releaseA)
	o := <-settledA
	assert.Equal(t, o.Err, nil)

	assert.Equal(t, viewA.State(), likeState{liked: true, count: 2})
	assert.Equal(t, viewB.State(), likeState{liked: true, count: 2})
}
