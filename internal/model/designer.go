package model

// Designer is a person objects in the scene can be attached to.
type Designer struct {
	ID                   string `json:"id"`
	FullName             string `json:"fullName"`
	WorkingHours         int    `json:"workingHours"`
	AttachedObjectsCount int    `json:"attachedObjectsCount"`
}

// NewDesigner holds the fields supplied when a designer is created.
type NewDesigner struct {
	FullName     string `json:"fullName"`
	WorkingHours int    `json:"workingHours"`
}
