package registers

import "testing"

func TestFetchUnwrittenRegisterIsEmpty(t *testing.T) {
	s := NewStore()
	if c := s.Fetch('a'); !c.Empty() {
		t.Errorf("expected empty content, got %+v", c)
	}
}

func TestStoreAndFetchNamedRegister(t *testing.T) {
	s := NewStore()
	s.Store('a', Content{Text: "hello", Kind: Character})
	if c := s.Fetch('a'); c.Text != "hello" || c.Kind != Character {
		t.Errorf("got %+v", c)
	}
}

func TestUppercaseAppendsToLowercase(t *testing.T) {
	s := NewStore()
	s.Store('a', Content{Text: "hello", Kind: Character})
	s.Store('A', Content{Text: " world", Kind: Character})

	if c := s.Fetch('a'); c.Text != "hello world" {
		t.Errorf("got %q", c.Text)
	}
	if c := s.Fetch('A'); c.Text != "hello world" {
		t.Errorf("uppercase fetch should read the same register, got %q", c.Text)
	}
}

func TestUppercaseAppendJoinsWithNewlineWhenLinewise(t *testing.T) {
	s := NewStore()
	s.Store('a', Content{Text: "one", Kind: Line})
	s.Store('A', Content{Text: "two", Kind: Character})

	if c := s.Fetch('a'); c.Text != "one\ntwo" {
		t.Errorf("got %q", c.Text)
	}
}

func TestSetYankWritesRegisterZeroAndUnnamed(t *testing.T) {
	s := NewStore()
	s.SetYank(0, Content{Text: "yanked", Kind: Character})

	if c := s.Fetch('0'); c.Text != "yanked" {
		t.Errorf("register 0 = %q", c.Text)
	}
	if c := s.Fetch(0); c.Text != "yanked" {
		t.Errorf("unnamed register = %q", c.Text)
	}
}

func TestSetYankWithExplicitRegisterAlsoWritesNamed(t *testing.T) {
	s := NewStore()
	s.SetYank('q', Content{Text: "yanked", Kind: Character})

	if c := s.Fetch('q'); c.Text != "yanked" {
		t.Errorf("register q = %q", c.Text)
	}
	if c := s.Fetch('0'); c.Text != "yanked" {
		t.Errorf("register 0 should still be written, got %q", c.Text)
	}
}

func TestSmallDeleteGoesToDashRegister(t *testing.T) {
	s := NewStore()
	s.SetDelete(0, Content{Text: "x", Kind: Character}, true)

	if c := s.Fetch('-'); c.Text != "x" {
		t.Errorf("small-delete register = %q", c.Text)
	}
	if c := s.Fetch('1'); !c.Empty() {
		t.Error("numbered registers should not rotate on a small delete")
	}
}

func TestLargeDeleteRotatesNumberedRegisters(t *testing.T) {
	s := NewStore()
	s.SetDelete(0, Content{Text: "first", Kind: Line}, false)
	s.SetDelete(0, Content{Text: "second", Kind: Line}, false)

	if c := s.Fetch('1'); c.Text != "second" {
		t.Errorf("register 1 = %q, want most recent delete", c.Text)
	}
	if c := s.Fetch('2'); c.Text != "first" {
		t.Errorf("register 2 = %q, want previous delete rotated down", c.Text)
	}
}

func TestDeleteWithExplicitRegisterDoesNotRotate(t *testing.T) {
	s := NewStore()
	s.SetDelete('q', Content{Text: "x", Kind: Line}, false)

	if c := s.Fetch('q'); c.Text != "x" {
		t.Errorf("register q = %q", c.Text)
	}
	if c := s.Fetch('1'); !c.Empty() {
		t.Error("explicit-register delete should not rotate numbered registers")
	}
}

func TestSetDeleteAlwaysUpdatesUnnamed(t *testing.T) {
	s := NewStore()
	s.SetDelete(0, Content{Text: "deleted", Kind: Character}, true)
	if c := s.Fetch(0); c.Text != "deleted" {
		t.Errorf("unnamed = %q", c.Text)
	}
}
