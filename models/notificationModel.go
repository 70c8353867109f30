package models

// ChangeNotification is a push message from the realtime endpoint. The
// payload format is not stable across backend versions, so only the
// discriminator is read; any well-formed notification triggers a full
// re-fetch instead of a field-level patch.
type ChangeNotification struct {
	Type     string `json:"type"`
	Action   string `json:"action"`
	Order_id string `json:"order_id,omitempty"`
}

// Kind returns whichever discriminator the backend filled in.
func (n ChangeNotification) Kind() string {
	if n.Type != "" {
		return n.Type
	}
	return n.Action
}
