package grid

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEvaluator(maxEntries int) *Evaluator {
	return NewEvaluator(maxEntries, zerolog.Nop())
}

func TestEvaluator_Idempotence(t *testing.T) {
	e := newTestEvaluator(0)
	req := validRequest()

	first, err := e.Grid(req)
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	second, err := e.Grid(req)
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}

	// The cache hands back the same computation, so the matrices are
	// bit-identical by construction.
	if first != second {
		t.Fatal("repeated request did not return the cached result")
	}
	if e.Len() != 1 {
		t.Errorf("cache len = %d, want 1", e.Len())
	}
}

func TestEvaluator_KeyComponentsIndependent(t *testing.T) {
	e := newTestEvaluator(0)
	base := validRequest()

	baseRes, err := e.Grid(base)
	if err != nil {
		t.Fatalf("Grid(base) error = %v", err)
	}

	// Changing any single field is a different key and a fresh compute.
	mutations := []func(*Request){
		func(r *Request) { r.Strike = 110 },
		func(r *Request) { r.Rate = 0.02 },
		func(r *Request) { r.TimeToExpiry = 0.5 },
		func(r *Request) { r.SpotMin = 90 },
		func(r *Request) { r.SpotMax = 130 },
		func(r *Request) { r.VolMin = 0.05 },
		func(r *Request) { r.VolMax = 0.50 },
		func(r *Request) { r.Resolution = 7 },
		func(r *Request) { r.Mode = ModePnL },
		func(r *Request) { r.Mode = ModePnL; r.CallPurchase = 2 },
		func(r *Request) { r.Mode = ModePnL; r.PutPurchase = 2 },
	}
	for i, mutate := range mutations {
		req := base
		mutate(&req)
		res, err := e.Grid(req)
		if err != nil {
			t.Fatalf("Grid(mutation %d) error = %v", i, err)
		}
		if res == baseRes {
			t.Errorf("mutation %d returned the base entry", i)
		}
		if len(res.Call) != req.Resolution {
			t.Errorf("mutation %d: rows = %d, want %d", i, len(res.Call), req.Resolution)
		}
	}

	// The base entry is untouched by the other keys.
	again, err := e.Grid(base)
	if err != nil {
		t.Fatalf("Grid(base) error = %v", err)
	}
	if again != baseRes {
		t.Error("base entry was invalidated by unrelated keys")
	}
	if e.Len() != len(mutations)+1 {
		t.Errorf("cache len = %d, want %d", e.Len(), len(mutations)+1)
	}
}

func TestEvaluator_SingleComputePerKeyUnderConcurrency(t *testing.T) {
	e := newTestEvaluator(0)
	req := validRequest()
	req.Resolution = 50

	const callers = 32
	results := make([]*Result, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := e.Grid(req)
			if err != nil {
				t.Errorf("Grid() error = %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	// All callers share the one computed result.
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different result pointer", i)
		}
	}
	if e.Len() != 1 {
		t.Errorf("cache len = %d, want 1", e.Len())
	}
}

func TestEvaluator_LRUBound(t *testing.T) {
	e := newTestEvaluator(3)
	base := validRequest()

	for i := 0; i < 5; i++ {
		req := base
		req.Resolution = 2 + i
		if _, err := e.Grid(req); err != nil {
			t.Fatalf("Grid() error = %v", err)
		}
	}

	if e.Len() != 3 {
		t.Errorf("cache len = %d, want 3", e.Len())
	}

	// The newest entries survived.
	newest := base
	newest.Resolution = 6
	before := e.Len()
	res1, _ := e.Grid(newest)
	res2, _ := e.Grid(newest)
	if res1 != res2 || e.Len() != before {
		t.Error("newest entry was not retained")
	}
}

func TestEvaluator_Invalidate(t *testing.T) {
	e := newTestEvaluator(0)
	req := validRequest()

	first, err := e.Grid(req)
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	e.Invalidate(req)
	if e.Len() != 0 {
		t.Fatalf("cache len = %d after invalidate, want 0", e.Len())
	}
	second, err := e.Grid(req)
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	if first == second {
		t.Error("invalidated entry was served from cache")
	}
}

func TestEvaluator_ValidationErrorsBypassCache(t *testing.T) {
	e := newTestEvaluator(0)
	req := validRequest()
	req.Resolution = 1

	if _, err := e.Grid(req); err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if e.Len() != 0 {
		t.Errorf("invalid request was cached, len = %d", e.Len())
	}
}
