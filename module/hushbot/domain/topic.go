package domain

import "fmt"

func LocationTopic(deviceID string) string {
	return fmt.Sprintf("/hushbot/device/%s/location", deviceID)
}

func StateTopic(deviceID string) string {
	return fmt.Sprintf("/hushbot/device/%s/state", deviceID)
}

func CommandTopic(deviceID string) string {
	return fmt.Sprintf("/hushbot/device/%s/command", deviceID)
}

func NotifyTopic(deviceID string) string {
	return fmt.Sprintf("/hushbot/device/%s/notify", deviceID)
}
