package moderation

import (
	"context"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/store"
)

func TestWarningsRequest(t *testing.T) {
	st := store.NewMemoryStore()
	_ = st.SaveLedger(context.Background(), models.Ledger{"42": {{Reason: "spam", Time: "t"}}})
	handler := WarningsRequest(st)

	data, err := handler(map[string]interface{}{"userId": "42"})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if warns := data.([]models.Warning); len(warns) != 1 || warns[0].Reason != "spam" {
		t.Errorf("warnings = %+v", warns)
	}

	data, _ = handler(map[string]interface{}{"userId": "7"})
	if warns := data.([]models.Warning); warns == nil || len(warns) != 0 {
		t.Errorf("unknown user should get an empty list, got %#v", warns)
	}

	if _, err := handler(map[string]interface{}{}); err == nil {
		t.Error("missing userId should be an error")
	}
}
