package version

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// fakeSource serves descriptors from a map, standing in for the store
type fakeSource struct {
	descriptors map[string]*Descriptor
	calls       int
}

func (f *fakeSource) Raw(_ context.Context, id string) (*Descriptor, error) {
	f.calls++
	desc, ok := f.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", launchererrors.ErrVersionNotFound, id)
	}
	return desc, nil
}

func testLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.Trace,
	})
}

func lib(name string) Library {
	return Library{Name: name}
}

// TestResolveIdentity tests that a descriptor with no parent resolves unchanged
func TestResolveIdentity(t *testing.T) {
	logger := testLogger("resolver_test")

	desc := &Descriptor{
		ID:        "1.20.4",
		MainClass: "net.minecraft.client.main.Main",
		Libraries: []Library{lib("g:a:1.0"), lib("g:b:1.0")},
		Arguments: &Arguments{
			Game: ArgumentList{"--demo"},
			JVM:  ArgumentList{"-Xss1M"},
		},
	}

	source := &fakeSource{descriptors: map[string]*Descriptor{"1.20.4": desc}}
	resolver := NewResolver(source, logger)

	merged, err := resolver.Resolve(context.Background(), "1.20.4")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if merged.ID != "1.20.4" || merged.MainClass != desc.MainClass {
		t.Errorf("identity resolve changed scalar fields: %+v", merged)
	}
	if len(merged.Libraries) != 2 {
		t.Errorf("identity resolve changed library count: %d", len(merged.Libraries))
	}
	if len(merged.Arguments.Game) != 1 || merged.Arguments.Game[0] != "--demo" {
		t.Errorf("identity resolve changed game arguments: %v", merged.Arguments.Game)
	}
}

// TestResolveThreeLevelChain tests the nearer-to-child override rule
// across grandparent, parent and child declarations.
func TestResolveThreeLevelChain(t *testing.T) {
	logger := testLogger("resolver_test")

	source := &fakeSource{descriptors: map[string]*Descriptor{
		"base": {
			ID:        "base",
			MainClass: "base.Main",
			Libraries: []Library{lib("g:a:1.0"), lib("g:c:1.0")},
			Arguments: &Arguments{JVM: ArgumentList{"-Dbase=1"}},
		},
		"mid": {
			ID:           "mid",
			InheritsFrom: "base",
			Libraries:    []Library{lib("g:a:1.5"), lib("g:b:1.0")},
			Arguments:    &Arguments{JVM: ArgumentList{"-Dmid=1"}},
		},
		"child": {
			ID:           "child",
			InheritsFrom: "mid",
			MainClass:    "child.Main",
			Libraries:    []Library{lib("g:b:2.0")},
			Arguments:    &Arguments{JVM: ArgumentList{"-Dchild=1"}},
		},
	}}
	resolver := NewResolver(source, logger)

	merged, err := resolver.Resolve(context.Background(), "child")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	logger.Info("🔗 Merged chain", "libraries", merged.Libraries)

	byKey := map[string]string{}
	for _, l := range merged.Libraries {
		if _, dup := byKey[l.Key()]; dup {
			t.Errorf("duplicate dependency key %s in merged descriptor", l.Key())
		}
		byKey[l.Key()] = l.Name
	}

	want := map[string]string{
		"g:a": "g:a:1.5", // mid overrides base, child is silent
		"g:b": "g:b:2.0", // child overrides mid
		"g:c": "g:c:1.0", // base only
	}
	for key, name := range want {
		if byKey[key] != name {
			t.Errorf("key %s resolved to %q, want %q", key, byKey[key], name)
		}
	}

	if merged.MainClass != "child.Main" {
		t.Errorf("child mainClass should win, got %s", merged.MainClass)
	}

	wantJVM := []string{"-Dbase=1", "-Dmid=1", "-Dchild=1"}
	if len(merged.Arguments.JVM) != len(wantJVM) {
		t.Fatalf("jvm args = %v, want %v", merged.Arguments.JVM, wantJVM)
	}
	for i, arg := range wantJVM {
		if merged.Arguments.JVM[i] != arg {
			t.Errorf("jvm arg %d = %q, want %q (parent flags must come first)", i, merged.Arguments.JVM[i], arg)
		}
	}
}

// TestResolveCycle tests that an inheritance loop fails fast
func TestResolveCycle(t *testing.T) {
	logger := testLogger("resolver_test")

	source := &fakeSource{descriptors: map[string]*Descriptor{
		"a": {ID: "a", InheritsFrom: "b"},
		"b": {ID: "b", InheritsFrom: "a"},
	}}
	resolver := NewResolver(source, logger)

	_, err := resolver.Resolve(context.Background(), "a")
	if !errors.Is(err, launchererrors.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}

	// Each id is loaded at most once before the loop is caught
	if source.calls > 3 {
		t.Errorf("cycle detection recursed %d times", source.calls)
	}
}

// TestResolveSelfInheritance tests the degenerate one-node loop
func TestResolveSelfInheritance(t *testing.T) {
	source := &fakeSource{descriptors: map[string]*Descriptor{
		"a": {ID: "a", InheritsFrom: "a"},
	}}
	resolver := NewResolver(source, testLogger("resolver_test"))

	_, err := resolver.Resolve(context.Background(), "a")
	if !errors.Is(err, launchererrors.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

// TestResolveMissingParent tests that a dangling parent surfaces NotFound
func TestResolveMissingParent(t *testing.T) {
	source := &fakeSource{descriptors: map[string]*Descriptor{
		"child": {ID: "child", InheritsFrom: "ghost"},
	}}
	resolver := NewResolver(source, testLogger("resolver_test"))

	_, err := resolver.Resolve(context.Background(), "child")
	if !errors.Is(err, launchererrors.ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

// TestMergeDoesNotMutateInputs tests that merged descriptors are new values
func TestMergeDoesNotMutateInputs(t *testing.T) {
	parent := &Descriptor{
		ID:        "parent",
		Libraries: []Library{lib("g:a:1.0")},
		Arguments: &Arguments{JVM: ArgumentList{"-Dparent=1"}},
	}
	child := &Descriptor{
		ID:           "child",
		InheritsFrom: "parent",
		Libraries:    []Library{lib("g:a:2.0")},
	}

	merged := merge(parent, child)

	if parent.Libraries[0].Name != "g:a:1.0" {
		t.Errorf("merge mutated parent library list: %v", parent.Libraries)
	}
	if len(parent.Arguments.JVM) != 1 {
		t.Errorf("merge mutated parent arguments: %v", parent.Arguments.JVM)
	}
	if merged.Libraries[0].Name != "g:a:2.0" {
		t.Errorf("merged library should be the child's, got %v", merged.Libraries)
	}
}

// TestLibraryKey tests dependency key extraction from coordinates
func TestLibraryKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"org.lwjgl:lwjgl:3.3.3", "org.lwjgl:lwjgl"},
		{"org.lwjgl:lwjgl:3.3.3:natives-linux", "org.lwjgl:lwjgl:natives-linux"},
		{"g:a:1.0", "g:a"},
		{"broken", "broken"},
	}

	for _, tt := range tests {
		l := Library{Name: tt.name}
		if got := l.Key(); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
