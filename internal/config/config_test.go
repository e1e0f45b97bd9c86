package config

import "testing"

func TestDefaults(t *testing.T) {
	s := New()
	if s.MaxCallDepth() != 500 {
		t.Fatalf("max_call_depth default = %d, want 500", s.MaxCallDepth())
	}
	if !s.Bool("ic_enabled") {
		t.Fatal("ic_enabled should default true")
	}
	if s.Bool("profiler_enabled") {
		t.Fatal("profiler_enabled should default false")
	}
}

func TestSetValidation(t *testing.T) {
	s := New()
	if err := s.Set("max_call_depth", "0"); err == nil {
		t.Fatal("expected validation error for max_call_depth=0")
	}
	if err := s.Set("max_call_depth", "10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxCallDepth() != 10 {
		t.Fatalf("got %d, want 10", s.MaxCallDepth())
	}
}

func TestSetUnknownKey(t *testing.T) {
	s := New()
	if err := s.Set("does_not_exist", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestBoolParsing(t *testing.T) {
	s := New()
	for _, raw := range []string{"on", "true", "yes", "1"} {
		if err := s.Set("gc_enabled", raw); err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if !s.Bool("gc_enabled") {
			t.Fatalf("%q did not parse truthy", raw)
		}
	}
	for _, raw := range []string{"off", "false", "no", "0"} {
		if err := s.Set("gc_enabled", raw); err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if s.Bool("gc_enabled") {
			t.Fatalf("%q did not parse falsy", raw)
		}
	}
	if err := s.Set("gc_enabled", "maybe"); err == nil {
		t.Fatal("expected error for non-boolean value")
	}
}

func TestReset(t *testing.T) {
	s := New()
	_ = s.Set("max_call_depth", "42")
	if err := s.Reset("max_call_depth"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MaxCallDepth() != 500 {
		t.Fatalf("reset did not restore default, got %d", s.MaxCallDepth())
	}
}

func TestLoadFile(t *testing.T) {
	s := New()
	errs := s.Load("# comment\nmax_call_depth=100\nic_enabled=off\nbogus_key=1\nmalformed line\n")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error (malformed line), got %v", errs)
	}
	if s.MaxCallDepth() != 100 {
		t.Fatalf("max_call_depth = %d, want 100", s.MaxCallDepth())
	}
	if s.Bool("ic_enabled") {
		t.Fatal("ic_enabled should be off after load")
	}
}

func TestApplyEnv(t *testing.T) {
	s := New()
	s.ApplyEnv(func(key string) string {
		if key == "AXIOM_STACK_DEPTH" {
			return "77"
		}
		return ""
	})
	if s.MaxCallDepth() != 77 {
		t.Fatalf("AXIOM_STACK_DEPTH override = %d, want 77", s.MaxCallDepth())
	}
}

func TestListIsSortedAndStable(t *testing.T) {
	s := New()
	names := s.List()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("List() not sorted: %v", names)
		}
	}
}

func TestDescribe(t *testing.T) {
	s := New()
	p, ok := s.Describe("max_call_depth")
	if !ok {
		t.Fatal("expected max_call_depth to be describable")
	}
	if p.Default.(int64) != 500 {
		t.Fatalf("Describe default = %v, want 500", p.Default)
	}
	if p.Description == "" {
		t.Fatal("expected non-empty description")
	}
}
