package domain

import "time"

// MinPolicyAPILevel is the lowest device API level that exposes notification
// policy access.
const MinPolicyAPILevel = 23

// InterruptionFilter values match the device's notification manager constants.
type InterruptionFilter int

const (
	FilterUnknown  InterruptionFilter = 0
	FilterAll      InterruptionFilter = 1
	FilterPriority InterruptionFilter = 2
	FilterNone     InterruptionFilter = 3
	FilterAlarms   InterruptionFilter = 4
)

type DNDStatus string

const (
	DNDTotalSilence     DNDStatus = "Total Silence"
	DNDPriorityOnly     DNDStatus = "Priority Only"
	DNDAlarmsOnly       DNDStatus = "Alarms Only"
	DNDAllNotifications DNDStatus = "All Notifications"
	DNDUnknown          DNDStatus = "Unknown"
	DNDNoPermission     DNDStatus = "Permission not granted"
	DNDNotSupported     DNDStatus = "Not supported on this OS version"
)

// DeviceState is the latest self-report published by the device agent.
type DeviceState struct {
	DeviceID            string             `json:"device_id"`
	APILevel            int                `json:"api_level"`
	LocationPermission  bool               `json:"location_permission"`
	PolicyAccess        bool               `json:"policy_access"`
	MockLocationAllowed bool               `json:"mock_location_allowed"`
	InterruptionFilter  InterruptionFilter `json:"interruption_filter"`
	ReportedAt          time.Time          `json:"reported_at"`
}

type SettingsScreen string

const (
	SettingsPolicyAccess SettingsScreen = "notification_policy_access"
	SettingsDeveloper    SettingsScreen = "application_development"
)

type NotificationKind string

const (
	NotificationPost  NotificationKind = "notification"
	NotificationToast NotificationKind = "toast"
)

type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title,omitempty"`
	Message string           `json:"message"`
	Long    bool             `json:"long,omitempty"`
}
