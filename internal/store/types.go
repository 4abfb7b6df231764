package store

// VehicleOwner is the result of a gate-side vehicle lookup joined to the
// owning resident.
type VehicleOwner struct {
	VehicleNumber string `json:"vehicle_number"`
	Name          string `json:"name"`
	FlatNumber    string `json:"flat_number"`
}
