// Package queue defines message payloads exchanged over the message broker.
package queue

// SaleCompletedEvent is published when a fuel token is successfully
// redeemed at a pump. It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type SaleCompletedEvent struct {
	TokenID       uint64 `json:"token_id"`
	Token         string `json:"token"`
	DriverID      uint64 `json:"driver_id"`
	StationID     uint64 `json:"station_id"`
	StationName   string `json:"station_name"`
	ProductID     uint64 `json:"product_id"`
	ProductName   string `json:"product_name"`
	PumpNumber    string `json:"pump_number,omitempty"`
	AttendantID   uint64 `json:"attendant_id"`
	AttendantName string `json:"attendant_name,omitempty"`
	Amount        string `json:"amount"`
	Liters        string `json:"liters"`
	UnitPrice     string `json:"unit_price"`
	RedeemedAt    string `json:"redeemed_at"`
}
