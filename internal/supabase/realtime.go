package supabase

import (
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient pushes workflow events to kiosk channels so the kiosk UI can
// react to payment confirmation and redemption without polling.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

// PublishKioskEvent delivers an event on the kiosk's channel. The Supabase Go
// client has no direct Realtime publish; kiosks subscribe to Postgres changes
// on the jobs table, which the workflow's status writes trigger automatically.
// This hook exists for explicit events once the REST broadcast API is wired.
func (r *RealtimeClient) PublishKioskEvent(kioskID string, event string, payload map[string]interface{}) error {
	return nil
}
