package authstate

import (
	"sync"
	"testing"
	"time"
)

func TestStore_DispatchUpdatesState(t *testing.T) {
	store := NewStore(nil)

	store.Dispatch(LoginSuccess{User: sampleUser(), Token: sampleToken()})

	state := store.State()
	if !state.IsAuthenticated {
		t.Error("Expected authenticated state after LoginSuccess")
	}
}

func TestStore_SubscribersSeeEveryTransition(t *testing.T) {
	store := NewStore(nil)

	var seen []bool
	sub := store.Subscribe(func(s State) {
		seen = append(seen, s.IsAuthenticated)
	})
	defer sub.Unsubscribe()

	store.Dispatch(Login{})
	store.Dispatch(LoginSuccess{User: sampleUser(), Token: sampleToken()})
	store.Dispatch(LogoutSuccess{})

	want := []bool{false, true, false}
	if len(seen) != len(want) {
		t.Fatalf("Saw %d transitions, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Transition %d: authenticated = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	store := NewStore(nil)

	count := 0
	sub := store.Subscribe(func(State) { count++ })

	store.Dispatch(Login{})
	sub.Unsubscribe()
	sub.Unsubscribe() // safe to repeat
	store.Dispatch(LoginFailure{Error: "x"})

	if count != 1 {
		t.Errorf("Subscriber called %d times, want 1", count)
	}
}

func TestStore_OnActionReceivesActionAndState(t *testing.T) {
	store := NewStore(nil)

	var kinds []string
	sub := store.OnAction(func(a Action, s State) {
		kinds = append(kinds, a.Kind())
	})
	defer sub.Unsubscribe()

	store.Dispatch(Login{})
	store.Dispatch(LoginFailure{Error: "nope"})

	if len(kinds) != 2 || kinds[0] != "login" || kinds[1] != "login_failure" {
		t.Errorf("kinds = %v", kinds)
	}
}

// A subscriber that dispatches must not deadlock or interleave transitions;
// the nested dispatch is queued and applied after the current one completes.
func TestStore_ReentrantDispatch(t *testing.T) {
	store := NewStore(nil)

	var order []string
	sub := store.OnAction(func(a Action, s State) {
		order = append(order, a.Kind())
		if _, ok := a.(Login); ok {
			store.Dispatch(LoginFailure{Error: "nested"})
		}
	})
	defer sub.Unsubscribe()

	store.Dispatch(Login{})

	if len(order) != 2 || order[0] != "login" || order[1] != "login_failure" {
		t.Errorf("order = %v", order)
	}
	if store.State().Error != "nested" {
		t.Errorf("Error = %q, want nested", store.State().Error)
	}
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore(nil)

	var mu sync.Mutex
	count := 0
	sub := store.OnAction(func(Action, State) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	defer sub.Unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(Login{})
		}()
	}
	wg.Wait()

	// A Dispatch may return as soon as its action is queued; give the
	// draining dispatcher a moment to finish.
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		c := count
		mu.Unlock()
		if c == 50 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Processed %d actions, want 50", c)
		}
		time.Sleep(time.Millisecond)
	}
}
