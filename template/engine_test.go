package template

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileIdempotent(t *testing.T) {
	e := newTestEngine(t)

	template := "a{{#if c}}{{#each xs}}{{.}}{{/each}}{{/if}}{{> p}}"
	first := e.Compile(template)
	second := e.Compile(template)

	if !reflect.DeepEqual(first, second) {
		t.Error("compiling the same template twice must yield structurally equal ASTs")
	}
}

func TestCompileIdempotentAcrossEngines(t *testing.T) {
	// Idempotence is a property of the template text, not of one cache
	e1 := newTestEngine(t)
	e2 := newTestEngine(t)

	template := "{{#each xs}}{{name}}{{/each}}"
	if !reflect.DeepEqual(e1.Compile(template), e2.Compile(template)) {
		t.Error("independent engines must compile identical templates identically")
	}
}

func TestCompileCaching(t *testing.T) {
	e := newTestEngine(t)

	e.Compile("one {{a}}")
	e.Compile("one {{a}}")
	e.Compile("two {{b}}")

	assert.Equal(t, 2, e.CacheLen(), "identical templates share one cache entry")
}

func TestCompileCacheBounded(t *testing.T) {
	e, err := NewEngine(Config{CacheSize: 8})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		e.Compile(fmt.Sprintf("template {{v%d}}", i))
	}
	assert.LessOrEqual(t, e.CacheLen(), 8, "cache must evict past its bound")
}

func TestSafeRender(t *testing.T) {
	e := newTestEngine(t)

	t.Run("success", func(t *testing.T) {
		res := e.SafeRender(Partials{}, "Hi {{name}}", Context{"name": "Ana"})
		assert.True(t, res.Success)
		assert.Equal(t, "Hi Ana", res.Result)
		assert.Empty(t, res.Errors)
	})

	t.Run("validation failure reported, not raised", func(t *testing.T) {
		res := e.SafeRender(Partials{}, "{{#if a}}x", Context{})
		assert.False(t, res.Success)
		assert.Equal(t, []string{"1 unclosed {{#if}} tag(s)"}, res.Errors)
	})

	t.Run("render failure converted to structured result", func(t *testing.T) {
		res := e.SafeRender(Partials{}, "{{> missing}}", Context{})
		assert.False(t, res.Success)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "partial not found: missing")
	})
}

func TestEngineConcurrentRenders(t *testing.T) {
	e, err := NewEngine(Config{CacheSize: 4})
	require.NoError(t, err)

	// Many goroutines render a small set of templates, racing on the
	// shared compile cache
	templates := []string{
		"{{#each items}}{{.}}{{/each}}",
		"{{name}} {{> p}}",
		"{{#if on}}on{{/if}}",
	}
	ctx := Context{"items": []any{"a", "b"}, "name": "n", "on": true}
	partials := Partials{"p": "({{name}})"}
	want := []string{"ab", "n (n)", "on"}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				idx := i % len(templates)
				got, err := e.Render(templates[idx], ctx, partials)
				if err != nil {
					t.Errorf("Render: %v", err)
					return
				}
				if got != want[idx] {
					t.Errorf("Render(%q) = %q, want %q", templates[idx], got, want[idx])
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewEngineDefaults(t *testing.T) {
	e, err := NewEngine(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPartialDepth, e.maxPartialDepth)
}
