package source

import (
	"sync"
	"testing"
)

func TestToken(t *testing.T) {
	t.Run("starts unfired", func(t *testing.T) {
		tok := NewToken()
		if tok.HasChanged() {
			t.Error("new token should not report a change")
		}
	})

	t.Run("fire runs subscribers once", func(t *testing.T) {
		tok := NewToken()
		calls := 0
		tok.Subscribe(func() { calls++ })

		tok.Fire()
		tok.Fire()
		tok.Fire()

		if !tok.HasChanged() {
			t.Error("fired token should report a change")
		}
		if calls != 1 {
			t.Errorf("expected 1 subscriber call, got %d", calls)
		}
	})

	t.Run("late subscriber runs immediately", func(t *testing.T) {
		tok := NewToken()
		tok.Fire()

		ran := false
		tok.Subscribe(func() { ran = true })
		if !ran {
			t.Error("subscribing after fire should run the callback immediately")
		}
	})

	t.Run("concurrent fire is safe", func(t *testing.T) {
		tok := NewToken()
		count := 0
		var countMu sync.Mutex
		tok.Subscribe(func() {
			countMu.Lock()
			count++
			countMu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tok.Fire()
			}()
		}
		wg.Wait()

		countMu.Lock()
		defer countMu.Unlock()
		if count != 1 {
			t.Errorf("expected exactly 1 subscriber call, got %d", count)
		}
	})
}
