package dispatch_test

import (
	"testing"

	"github.com/inkwell-md/inkwell/internal/action"
	"github.com/inkwell-md/inkwell/internal/dispatch"
	"github.com/inkwell-md/inkwell/internal/editctx"
)

func singleRange() editctx.MultiContext {
	return editctx.MultiContext{Enabled: false}
}

func multiRange() editctx.MultiContext {
	return editctx.MultiContext{Enabled: true, InTextblock: true, SameBlockParent: true}
}

func TestDispatchUnknownAction(t *testing.T) {
	d := dispatch.New(singleRange)

	result := d.Dispatch(action.New("flyToTheMoon"))
	if result.Handled() {
		t.Error("unknown action must not be handled")
	}
	if result.Status != dispatch.StatusNoOp {
		t.Errorf("status = %v, want no-op", result.Status)
	}
}

func TestDispatchExactHandler(t *testing.T) {
	d := dispatch.New(singleRange)

	called := false
	d.Register(action.Bold, func(act action.Action) dispatch.Result {
		called = true
		return dispatch.OK()
	})

	if !d.Perform(action.New(action.Bold)) {
		t.Error("expected handled=true")
	}
	if !called {
		t.Error("handler was not invoked")
	}
}

func TestDispatchFamilyHandler(t *testing.T) {
	d := dispatch.New(singleRange)

	var got string
	d.RegisterFamily(action.HeadingPrefix, func(act action.Action) dispatch.Result {
		got = act.ID
		return dispatch.OK()
	})

	if !d.Perform(action.New("heading:3")) {
		t.Fatal("expected handled=true")
	}
	if got != "heading:3" {
		t.Errorf("handler saw id %q", got)
	}
}

func TestMultiSelectionGateBlocksHandler(t *testing.T) {
	d := dispatch.New(multiRange)

	called := false
	d.Register(action.InsertFootnote, func(act action.Action) dispatch.Result {
		called = true
		return dispatch.OK()
	})

	result := d.Dispatch(action.New(action.InsertFootnote))
	if result.Handled() {
		t.Error("footnote insertion must be blocked under multi-selection")
	}
	if called {
		t.Error("handler must never be invoked when the gate blocks")
	}
	if result.Message == "" {
		t.Error("blocked dispatch should carry a reason")
	}
}

func TestMultiSelectionGateAllowsFormatting(t *testing.T) {
	d := dispatch.New(multiRange)

	d.Register(action.Bold, func(act action.Action) dispatch.Result {
		return dispatch.OK()
	})

	if !d.Perform(action.New(action.Bold)) {
		t.Error("bold is on the multi-range allow-list")
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := dispatch.New(singleRange)
	d.SetLogger(discardLogger{})

	d.Register(action.Bold, func(act action.Action) dispatch.Result {
		panic("boom")
	})

	result := d.Dispatch(action.New(action.Bold))
	if result.Status != dispatch.StatusError {
		t.Errorf("status = %v, want error", result.Status)
	}
	if result.Handled() {
		t.Error("panicking handler must not report handled")
	}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func TestCanRunPolicy(t *testing.T) {
	tests := []struct {
		name string
		id   string
		mc   editctx.MultiContext
		want bool
	}{
		{"single range anything", action.InsertImage, singleRange(), true},
		{"multi formatting", action.Italic, multiRange(), true},
		{"multi heading family", "heading:2", multiRange(), true},
		{"multi footnote", action.InsertFootnote, multiRange(), false},
		{"multi image", action.InsertImage, multiRange(), false},
		{"multi table structure", action.TableDeleteRow, multiRange(), false},
		{"multi blocked by code block", action.Bold,
			editctx.MultiContext{Enabled: true, InCodeBlock: true, Reason: "selection touches a code block"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := dispatch.CanRun(tt.id, tt.mc)
			if got != tt.want {
				t.Errorf("CanRun(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
