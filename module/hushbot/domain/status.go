package domain

type RegionView struct {
	Record         GeofenceRecord `json:"geofence"`
	Status         RegionStatus   `json:"status"`
	DistanceMeters *float64       `json:"distance_meters,omitempty"`
}

type DNDView struct {
	Status            DNDStatus `json:"status"`
	PermissionGranted bool      `json:"permission_granted"`
}

// Screen is what the status page renders. Region statuses are a local
// distance estimate and may disagree with the region monitor.
type Screen struct {
	CurrentLocation *Location    `json:"current_location"`
	MockLocation    bool         `json:"mock_location"`
	Estimate        bool         `json:"estimate"`
	Regions         []RegionView `json:"regions"`
	DND             DNDView      `json:"dnd"`
}
