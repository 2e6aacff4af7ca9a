package domain

import "time"

type Location struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type DeviceLocation struct {
	DeviceID string   `json:"device_id"`
	Location Location `json:"location"`
}

type HistoryQuery struct {
	DeviceID string
	Start    time.Time
	End      time.Time
}
