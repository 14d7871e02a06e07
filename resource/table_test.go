package resource

import (
	"sync"
	"testing"

	"github.com/wippyai/cartridge-host/cell"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]("test")

	id, c := table.Create("a")
	if id != 0 {
		t.Fatalf("first ID = %d, want 0", id)
	}
	if *c.GetMut() != "a" {
		t.Fatalf("handle value = %q, want a", *c.GetMut())
	}

	found, ok := table.Find(id)
	if !ok {
		t.Fatal("Find failed")
	}
	if !found.Same(c) {
		t.Fatal("Find should return a handle to the stored value")
	}

	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", table.Len())
	}
}

func TestTable_MonotonicIDs(t *testing.T) {
	table := NewTable[int]("test")

	var last ID
	for i := 0; i < 100; i++ {
		id, _ := table.Create(i)
		if i > 0 && id <= last {
			t.Fatalf("ID %d not greater than previous %d", id, last)
		}
		if id != ID(i) {
			t.Fatalf("ID = %d, want %d", id, i)
		}
		last = id
	}
	if table.NextID() != 100 {
		t.Fatalf("NextID = %d, want 100", table.NextID())
	}
}

func TestTable_FindUnknown(t *testing.T) {
	table := NewTable[int]("test")
	table.Create(1)

	for _, id := range []ID{1, 2, 1 << 40} {
		if _, ok := table.Find(id); ok {
			t.Fatalf("Find(%d) should miss", id)
		}
	}
	if table.Len() != 1 {
		t.Fatal("Find must not create placeholder entries")
	}
}

func TestTable_SharedMutation(t *testing.T) {
	table := NewTable[[]int]("test")
	id, c := table.Create(nil)

	_ = c.With(func(s *[]int) error {
		*s = append(*s, 1, 2, 3)
		return nil
	})

	found, _ := table.Find(id)
	if got := len(*found.GetMut()); got != 3 {
		t.Fatalf("len through registry = %d, want 3", got)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]("mesh")
	obs := &testObserver{}
	table.Subscribe(obs)

	id, _ := table.Create("x")
	table.Find(42)

	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[0].ID != id || obs.events[0].Table != "mesh" {
		t.Fatalf("unexpected created event %+v", obs.events[0])
	}
	if obs.events[1].Type != EventMiss || obs.events[1].ID != 42 {
		t.Fatalf("unexpected miss event %+v", obs.events[1])
	}

	table.Unsubscribe(obs)
	table.Create("y")
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable[int]("test")
	for i := 0; i < 5; i++ {
		table.Create(i * 10)
	}

	var ids []ID
	table.Each(func(id ID, c *cell.Cell[int]) bool {
		ids = append(ids, id)
		return id < 2
	})
	if len(ids) != 3 || ids[0] != 0 || ids[2] != 2 {
		t.Fatalf("Each visited %v, want [0 1 2]", ids)
	}
}

func TestTable_ConcurrentCreate(t *testing.T) {
	table := NewTable[int]("test")
	const workers, per = 8, 250

	var wg sync.WaitGroup
	seen := make([][]ID, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				id, _ := table.Create(i)
				seen[w] = append(seen[w], id)
				table.Find(id)
			}
		}(w)
	}
	wg.Wait()

	unique := make(map[ID]bool)
	for _, ids := range seen {
		for _, id := range ids {
			if unique[id] {
				t.Fatalf("ID %d assigned twice", id)
			}
			unique[id] = true
		}
	}
	if len(unique) != workers*per || table.Len() != workers*per {
		t.Fatalf("got %d IDs, %d entries, want %d", len(unique), table.Len(), workers*per)
	}
}
