package dto

type SettingsPayload struct {
	MapKey     string `json:"map_key"`
	WebhookURL string `json:"webhook_url"`
}
