// Package config implements Axiom's toggle-driven configuration store
// (§4.I): property descriptors with a type, default, and validator,
// seeded from a plain-text key=value file and overridable by environment
// variables, exposed through get/set/list/describe/reset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dolthub/swiss"
)

// Kind is a property's declared value type.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
)

// Property is one documented, validated configuration entry.
type Property struct {
	Name        string
	Kind        Kind
	Default     interface{}
	Description string
	// Validate checks a candidate value (already parsed to the right Go
	// type) and returns an error describing why it was rejected.
	Validate func(interface{}) error

	value interface{}
	isSet bool
}

// Store holds every known property, keyed by name, in a swiss.Map for
// O(1) get/set/describe — the same map type the interner uses (§4.I.1),
// kept for consistency within the module rather than variety for its
// own sake.
type Store struct {
	props *swiss.Map[string, *Property]
}

// New builds a Store pre-populated with every property Axiom defines
// (max_call_depth, nan_boxing, ic_enabled, peephole_optimizer, gc_enabled,
// profiler_enabled) and their documented defaults.
func New() *Store {
	s := &Store{props: swiss.NewMap[string, *Property](16)}
	for _, p := range defaultProperties() {
		p := p
		s.props.Put(p.Name, p)
	}
	return s
}

func defaultProperties() []*Property {
	return []*Property{
		{
			Name: "max_call_depth", Kind: KindInt, Default: int64(500),
			Description: "frame stack depth ceiling before StackOverflow (AXM_408)",
			Validate: func(v interface{}) error {
				if v.(int64) < 1 {
					return fmt.Errorf("max_call_depth must be >= 1")
				}
				return nil
			},
		},
		{
			Name: "nan_boxing", Kind: KindBool, Default: false,
			Description: "use NaN-boxed value representation instead of a tagged union (no observable effect in this implementation, see DESIGN.md)",
		},
		{
			Name: "ic_enabled", Kind: KindBool, Default: true,
			Description: "property-access inline caches (§4.G); accepted but not read by this implementation, so the VM's caches stay on either way",
		},
		{
			Name: "peephole_optimizer", Kind: KindBool, Default: true,
			Description: "enable the optimizer pipeline (constant folding, quickening, peephole move elimination, jump threading, dead-code elimination); disabling must not change observable results (§8.7)",
		},
		{
			Name: "gc_enabled", Kind: KindBool, Default: true,
			Description: "enable garbage collection; when false, allocations still succeed but nothing is reclaimed (benchmark-only)",
		},
		{
			Name: "profiler_enabled", Kind: KindBool, Default: false,
			Description: "enable opcode counters and hot-loop detection",
		},
	}
}

// Load reads a plain-text key=value config file (§6.5): one property per
// line, `#` line comments, unknown keys ignored, malformed values reported
// but non-fatal to the rest of the load.
func (s *Store) Load(text string) []error {
	var errs []error
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			errs = append(errs, fmt.Errorf("malformed config line: %q", line))
			continue
		}
		key := strings.TrimSpace(line[:eq])
		raw := strings.TrimSpace(line[eq+1:])
		if _, ok := s.props.Get(key); !ok {
			continue // unknown keys ignored on load
		}
		if err := s.Set(key, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ApplyEnv overrides properties from their corresponding environment
// variables (§6.2): AXIOM_STACK_DEPTH -> max_call_depth. Env overrides
// take precedence over the file, so ApplyEnv must run after Load.
func (s *Store) ApplyEnv(getenv func(string) string) {
	if v := getenv("AXIOM_STACK_DEPTH"); v != "" {
		_ = s.Set("max_call_depth", v)
	}
}

// ApplyOSEnv is ApplyEnv bound to os.Getenv, the normal entry point for
// cmd/axiom.
func (s *Store) ApplyOSEnv() { s.ApplyEnv(os.Getenv) }

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}

// Set parses raw against the property's declared Kind, validates it, and
// stores it. Rejects unknown keys and malformed/invalid values.
func (s *Store) Set(name, raw string) error {
	p, ok := s.props.Get(name)
	if !ok {
		return fmt.Errorf("unknown config key %q", name)
	}
	var v interface{}
	switch p.Kind {
	case KindBool:
		b, ok := parseBool(raw)
		if !ok {
			return fmt.Errorf("%s: %q is not a boolean (on|off|true|false|yes|no|1|0)", name, raw)
		}
		v = b
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", name, raw)
		}
		v = n
	case KindString:
		v = raw
	}
	if p.Validate != nil {
		if err := p.Validate(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	p.value = v
	p.isSet = true
	return nil
}

// Get returns the property's current value (falling back to its
// default) and whether name is known at all.
func (s *Store) Get(name string) (interface{}, bool) {
	p, ok := s.props.Get(name)
	if !ok {
		return nil, false
	}
	if p.isSet {
		return p.value, true
	}
	return p.Default, true
}

// Reset restores name to its documented default.
func (s *Store) Reset(name string) error {
	p, ok := s.props.Get(name)
	if !ok {
		return fmt.Errorf("unknown config key %q", name)
	}
	p.isSet = false
	p.value = nil
	return nil
}

// List returns every property name in a stable, alphabetically sorted
// order (list output must be deterministic, §8.1).
func (s *Store) List() []string {
	names := make([]string, 0, s.props.Count())
	s.props.Iter(func(k string, _ *Property) bool {
		names = append(names, k)
		return false
	})
	sortStrings(names)
	return names
}

func sortStrings(xs []string) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// Describe returns the property's descriptor for `conf describe`: type,
// default, and validator documentation, not just its current value.
func (s *Store) Describe(name string) (*Property, bool) {
	return s.props.Get(name)
}

// MaxCallDepth is a typed convenience accessor cmd/axiom uses to seed
// VM.MaxCallDepth.
func (s *Store) MaxCallDepth() int {
	v, _ := s.Get("max_call_depth")
	return int(v.(int64))
}

func (s *Store) Bool(name string) bool {
	v, _ := s.Get(name)
	b, _ := v.(bool)
	return b
}
