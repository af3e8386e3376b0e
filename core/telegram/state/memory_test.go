package state

import (
	"sync"
	"testing"
)

func TestMemoryManagerDefaults(t *testing.T) {
	m := NewMemoryManager()

	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("GetState = %q, want idle", got)
	}
	if got := m.GetAction(1); got != ActionNone {
		t.Fatalf("GetAction = %q, want none", got)
	}
	if m.IsAdmin(1) {
		t.Fatal("IsAdmin = true for fresh session")
	}
	if m.InProgress(1) {
		t.Fatal("InProgress = true for fresh session")
	}
}

func TestMemoryManagerDialogueLifecycle(t *testing.T) {
	m := NewMemoryManager()
	const user = int64(42)

	m.SetAdmin(user, true)
	m.SetAction(user, ActionCreate)
	m.SetState(user, State("awaiting_name"))
	m.UpdateDraft(user, func(d *Draft) { d.Name = "Pizza" })
	m.UpdateDraft(user, func(d *Draft) { d.Ingredients = "cheese,dough" })

	if !m.InProgress(user) {
		t.Fatal("expected dialogue in progress")
	}
	session := m.Get(user)
	if session.Action != ActionCreate || session.Draft.Name != "Pizza" || session.Draft.Ingredients != "cheese,dough" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if !session.AdminMode {
		t.Fatal("admin flag lost before clear")
	}

	m.Clear(user)

	cleared := m.Get(user)
	if cleared.State != StateIdle || cleared.Action != ActionNone || cleared.Draft != (Draft{}) {
		t.Fatalf("session not reset after clear: %+v", cleared)
	}
	if cleared.AdminMode {
		t.Fatal("clear must reset the admin flag as well")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, State("awaiting_name"))
	m.UpdateDraft(1, func(d *Draft) { d.Name = "Soup" })

	if m.InProgress(2) {
		t.Fatal("user 2 must not see user 1 state")
	}
	if d := m.GetDraft(2); d != (Draft{}) {
		t.Fatalf("user 2 draft not empty: %+v", d)
	}
}

func TestMemoryManagerConcurrentAccess(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, State("awaiting_name"))
			m.UpdateDraft(id, func(d *Draft) { d.Rating = "8" })
			_ = m.Get(id)
			m.Clear(id)
		}(int64(i % 4))
	}
	wg.Wait()
}
