// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package schema

// WeatherObservationTable represents the 'weather.observation' table
type WeatherObservationTable struct {
	Table       string
	ID          string
	City        string
	Temperature string
	Condition   string
	RecordedAt  string
	OwnerID     string
	CreatedAt   string
	UpdatedAt   string
}

// WeatherObservation is the schema definition for weather.observation
var WeatherObservation = WeatherObservationTable{
	Table:       "weather.observation",
	ID:          "id",
	City:        "city",
	Temperature: "temperature",
	Condition:   "condition",
	RecordedAt:  "recordedat",
	OwnerID:     "ownerid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t WeatherObservationTable) Columns() []string {
	return []string{t.ID, t.City, t.Temperature, t.Condition, t.RecordedAt, t.OwnerID, t.CreatedAt, t.UpdatedAt}
}
