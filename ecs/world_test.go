package ecs

import (
	"testing"

	"github.com/veldrane/helix/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if w.EntityCount() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.EntityCount())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.EntityCount() != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, w.EntityCount())
				}
			}
		})
	}
}

func TestWorldRecyclesIDsWithNewGeneration(t *testing.T) {
	w := NewWorld()
	e1 := w.CreateEntity()
	if !w.DestroyEntity(e1) {
		t.Fatalf("destroy failed")
	}
	e2 := w.CreateEntity()

	if e1.ID() != e2.ID() {
		t.Fatalf("expected recycled id %d, got %d", e1.ID(), e2.ID())
	}
	if e1 == e2 {
		t.Fatalf("recycled entity should differ by generation")
	}
	if w.IsAlive(e1) {
		t.Fatalf("stale handle reports alive")
	}
	if !w.IsAlive(e2) {
		t.Fatalf("recycled entity should be alive")
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	hInt := component.NewComponent[int]()
	hStr := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	if err := Add(w, e1, hInt, 10); err != nil {
		t.Fatalf("add int to e1: %v", err)
	}
	if err := Add(w, e2, hInt, 20); err != nil {
		t.Fatalf("add int to e2: %v", err)
	}
	if err := Add(w, e2, hStr, "two"); err != nil {
		t.Fatalf("add string to e2: %v", err)
	}
	if err := Add(w, e3, hStr, "three"); err != nil {
		t.Fatalf("add string to e3: %v", err)
	}

	t.Run("get", func(t *testing.T) {
		v, ok := Get(w, e2, hInt)
		if !ok || v != 20 {
			t.Fatalf("expected 20, got %v ok=%v", v, ok)
		}
		if _, ok := Get(w, e1, hStr); ok {
			t.Fatalf("e1 should not have a string component")
		}
	})

	t.Run("query_single", func(t *testing.T) {
		got := w.Query(hInt.Kind())
		if len(got) != 2 {
			t.Fatalf("expected 2 entities with int, got %d", len(got))
		}
	})

	t.Run("query_intersection", func(t *testing.T) {
		got := w.Query(hInt.Kind(), hStr.Kind())
		if len(got) != 1 || got[0] != e2 {
			t.Fatalf("expected [e2], got %v", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := Add(w, e1, hInt, 11); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		v, _ := Get(w, e1, hInt)
		if v != 11 {
			t.Fatalf("expected overwritten value 11, got %d", v)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if !Remove(w, e2, hInt) {
			t.Fatalf("remove should report true")
		}
		if Has(w, e2, hInt) {
			t.Fatalf("component should be gone after remove")
		}
		if got := w.Query(hInt.Kind(), hStr.Kind()); len(got) != 0 {
			t.Fatalf("intersection should be empty, got %v", got)
		}
	})

	t.Run("destroy_clears_components", func(t *testing.T) {
		w.DestroyEntity(e3)
		if Has(w, e3, hStr) {
			t.Fatalf("destroyed entity still has component")
		}
		if err := Add(w, e3, hStr, "stale"); err == nil {
			t.Fatalf("adding to a dead entity should fail")
		}
	})
}

func TestWorldQueryAddOnStaleEntity(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := w.CreateEntity()
	if err := Add(w, e, h, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(e)
	recycled := w.CreateEntity()
	if recycled.ID() != e.ID() {
		t.Fatalf("expected id reuse")
	}
	if Has(w, recycled, h) {
		t.Fatalf("recycled entity inherited a component")
	}
	if got := w.Query(h.Kind()); len(got) != 0 {
		t.Fatalf("query returned stale entity %v", got)
	}
}

type countingSystem struct {
	calls int
	dts   []float64
}

func (s *countingSystem) Update(w *World, dt float64) {
	s.calls++
	s.dts = append(s.dts, dt)
}

func TestWorldUpdateRunsSystemsAndFlushesEvents(t *testing.T) {
	w := NewWorld()
	sys := &countingSystem{}
	w.AddSystem(sys)

	w.Update(1.0 / 60.0)
	w.Update(1.0 / 60.0)
	if sys.calls != 2 {
		t.Fatalf("expected 2 system calls, got %d", sys.calls)
	}
	if sys.dts[0] != 1.0/60.0 {
		t.Fatalf("dt not forwarded, got %v", sys.dts[0])
	}

	w.Events().Push(Event{Type: "test"})
	w.Update(1.0 / 60.0)
	if w.Events().Len() != 0 {
		t.Fatalf("undrained events should flush at end of frame")
	}
}

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.Len())
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("drain order wrong: %v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("second drain should be empty")
	}
}
