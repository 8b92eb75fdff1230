package domain

// CreateSlotRequest representa la petición para crear un turno
type CreateSlotRequest struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	MaxCount  int    `json:"maxCount"`
}
