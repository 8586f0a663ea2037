package lua_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-md/inkwell/internal/plugin/lua"
)

func load(t *testing.T, name, source string) *lua.Engine {
	t.Helper()
	e := lua.NewEngine()
	if err := e.Load(name, source); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func TestTransform(t *testing.T) {
	e := load(t, "shout", `
		function transform(input, ctx)
			return string.upper(input)
		end
	`)
	got, err := e.Transform(context.Background(), "shout", "hello", nil)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "HELLO" {
		t.Fatalf("Transform = %q, want %q", got, "HELLO")
	}
}

func TestTransformReceivesMeta(t *testing.T) {
	e := load(t, "tag", `
		function transform(input, ctx)
			return ctx.blockType .. ":" .. input
		end
	`)
	got, err := e.Transform(context.Background(), "tag", "text", map[string]string{
		"blockType": "heading",
	})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got != "heading:text" {
		t.Fatalf("Transform = %q", got)
	}
}

func TestTransformUnknownScript(t *testing.T) {
	e := lua.NewEngine()
	if _, err := e.Transform(context.Background(), "missing", "x", nil); err == nil {
		t.Fatal("expected error for unknown script")
	}
}

func TestTransformMissingFunction(t *testing.T) {
	e := load(t, "empty", `local x = 1`)
	_, err := e.Transform(context.Background(), "empty", "x", nil)
	if err == nil || !strings.Contains(err.Error(), "transform") {
		t.Fatalf("err = %v, want missing transform function", err)
	}
}

func TestTransformNonStringReturn(t *testing.T) {
	e := load(t, "num", `
		function transform(input, ctx)
			return 42
		end
	`)
	if _, err := e.Transform(context.Background(), "num", "x", nil); err == nil {
		t.Fatal("expected error for non-string return")
	}
}

func TestSandboxBlocksFilesystem(t *testing.T) {
	for name, src := range map[string]string{
		"io": `function transform(i, c) return io.open("/etc/passwd"):read("*a") end`,
		"os": `function transform(i, c) return os.getenv("HOME") end`,
	} {
		e := load(t, "probe", src)
		if _, err := e.Transform(context.Background(), "probe", "x", nil); err == nil {
			t.Errorf("%s access should fail in the sandbox", name)
		}
	}
}

func TestSandboxBlocksCodeLoading(t *testing.T) {
	e := load(t, "loader", `
		function transform(input, ctx)
			return load("return 1")()
		end
	`)
	if _, err := e.Transform(context.Background(), "loader", "x", nil); err == nil {
		t.Fatal("load should be unavailable in the sandbox")
	}
}

func TestTransformTimeout(t *testing.T) {
	e := load(t, "spin", `
		function transform(input, ctx)
			while true do end
		end
	`)
	e.SetTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := e.Transform(context.Background(), "spin", "x", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout not enforced")
	}
}

func TestLoadRejectsUnsafeNames(t *testing.T) {
	e := lua.NewEngine()
	for _, name := range []string{"", "a/b", "a.b", "no spaces"} {
		if err := e.Load(name, "x"); err == nil {
			t.Errorf("Load(%q) should fail", name)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	script := "function transform(i, c) return i .. \"!\" end"
	if err := os.WriteFile(filepath.Join(dir, "bang.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a script"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := lua.NewEngine()
	if err := e.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := e.Names(); len(got) != 1 || got[0] != "bang" {
		t.Fatalf("Names = %v, want [bang]", got)
	}
	got, err := e.Transform(context.Background(), "bang", "hi", nil)
	if err != nil || got != "hi!" {
		t.Fatalf("Transform = %q, %v", got, err)
	}
}

func TestLoadDirMissing(t *testing.T) {
	e := lua.NewEngine()
	if err := e.LoadDir(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("missing dir should load nothing, got %v", err)
	}
}
