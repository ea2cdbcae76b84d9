package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/store"
)

// WarningsTopic is the request topic answered by WarningsRequest
const WarningsTopic = "warnings"

// WarningsRequest answers read-only ledger queries of the form
// {"userId": "..."} coming from the event bus.
func WarningsRequest(st store.Store) func(payload map[string]interface{}) (interface{}, error) {
	return func(payload map[string]interface{}) (interface{}, error) {
		userID, _ := payload["userId"].(string)
		if userID == "" {
			return nil, fmt.Errorf("userId is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		warns := st.LoadLedger(ctx).Warnings(userID)
		if warns == nil {
			warns = []models.Warning{}
		}
		return warns, nil
	}
}
