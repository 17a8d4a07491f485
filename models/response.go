package models

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WidgetEvent is one lifecycle callback posted by the widget client.
type WidgetEvent struct {
	Type       string `json:"type"`
	Error      string `json:"error,omitempty"`
	Nonce      string `json:"nonce,omitempty"`
	DeviceData string `json:"deviceData,omitempty"`
}

// Widget event types, matching the embedded widget's callback names.
const (
	EventCreated       = "created"
	EventDestroyStart  = "destroyStart"
	EventDestroyEnd    = "destroyEnd"
	EventError         = "error"
	EventPaymentMethod = "paymentMethod"
)
