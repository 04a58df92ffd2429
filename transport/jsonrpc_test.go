package transport

import (
	"encoding/json"
	"testing"

	"github.com/use-agent/shopscout/models"
)

func TestResultFrame_RoundTripsID(t *testing.T) {
	id := json.RawMessage(`7`)
	frame := resultFrame(id, map[string]any{"ok": true})
	if string(frame.ID) != "7" {
		t.Errorf("expected id 7, got %s", frame.ID)
	}
	if frame.Error != nil {
		t.Errorf("expected no error on a result frame")
	}
}

func TestToolErrorFrame_MapsToolErrorCode(t *testing.T) {
	id := json.RawMessage(`1`)
	err := models.NewToolError(models.ErrBadInput, "missing field", nil)
	frame := toolErrorFrame(id, err)
	if frame.Error == nil {
		t.Fatalf("expected an error frame")
	}
	if frame.Error.Code != -32602 {
		t.Errorf("expected BAD_INPUT to map to -32602, got %d", frame.Error.Code)
	}
}

func TestToolErrorFrame_FallsBackToGenericForOpaqueErrors(t *testing.T) {
	id := json.RawMessage(`2`)
	frame := toolErrorFrame(id, errPlain("boom"))
	if frame.Error == nil || frame.Error.Code != -32000 {
		t.Errorf("expected generic -32000 fallback, got %+v", frame.Error)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
