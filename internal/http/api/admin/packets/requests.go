package packets

import "github.com/Nixie-Tech-LLC/cadence/internal/model"

// REQUESTS FOR /api/admin/*

type CreateDeviceRequest struct {
	Code    string `json:"code"    binding:"required"`
	Name    string `json:"name"    binding:"required"`
	GroupID *int   `json:"groupId"`
}

// SetDeviceGroupRequest moves a device between groups; a null groupId detaches it.
type SetDeviceGroupRequest struct {
	GroupID *int `json:"groupId"`
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateAssignmentRequest times are minutes since midnight.
type CreateAssignmentRequest struct {
	PlaylistID int   `json:"playlistId" binding:"required"`
	DaysOfWeek []int `json:"daysOfWeek" binding:"required,min=1,dive,min=0,max=6"`
	StartTime  *int  `json:"startTime"  binding:"required"`
	EndTime    *int  `json:"endTime"    binding:"required"`
	Priority   int   `json:"priority"`
}

type EnqueueCommandRequest struct {
	Command string       `json:"command" binding:"required"`
	Params  model.Params `json:"params"`
}
