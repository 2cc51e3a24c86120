package servicejob

import (
	"time"

	servicejobDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/servicejob"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "servicejob"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusPickedUp   Status = "picked_up"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []string{
	string(StatusQueued),
	string(StatusInProgress),
	string(StatusDone),
	string(StatusPickedUp),
	string(StatusCancelled),
}

var transitions = map[Status][]Status{
	StatusQueued:     {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDone, StatusCancelled},
	StatusDone:       {StatusPickedUp},
}

func (s Status) CanMoveTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Job struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	PlateNumber   string          `json:"plate_number"`
	VehicleModel  string          `json:"vehicle_model,omitempty"`
	Complaint     string          `json:"complaint,omitempty"`
	Mechanic      string          `json:"mechanic,omitempty"`
	Status        Status          `json:"status"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
	PickedUpAt    *time.Time      `json:"picked_up_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewJob(dto CreateJobDTO) *Job {
	return &Job{
		CustomerName:  dto.CustomerName,
		PlateNumber:   normalizePlate(dto.PlateNumber),
		VehicleModel:  dto.VehicleModel,
		Complaint:     dto.Complaint,
		Mechanic:      dto.Mechanic,
		Status:        StatusQueued,
		EstimatedCost: dto.EstimatedCost,
	}
}

// MoveTo advances the job and stamps the milestone reached at now.
func (j *Job) MoveTo(next Status, now time.Time) bool {
	if !j.Status.CanMoveTo(next) {
		return false
	}
	switch next {
	case StatusInProgress:
		j.StartedAt = &now
	case StatusDone:
		j.FinishedAt = &now
	case StatusPickedUp:
		j.PickedUpAt = &now
	}
	j.Status = next
	return true
}

func ToDataModel(j *Job) *servicejobDatamodel.Job {
	return &servicejobDatamodel.Job{
		ID:            j.ID,
		CustomerName:  j.CustomerName,
		PlateNumber:   j.PlateNumber,
		VehicleModel:  j.VehicleModel,
		Complaint:     j.Complaint,
		Mechanic:      j.Mechanic,
		Status:        string(j.Status),
		EstimatedCost: j.EstimatedCost,
		StartedAt:     j.StartedAt,
		FinishedAt:    j.FinishedAt,
		PickedUpAt:    j.PickedUpAt,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func FromDataModel(j *servicejobDatamodel.Job) *Job {
	return &Job{
		ID:            j.ID,
		CustomerName:  j.CustomerName,
		PlateNumber:   j.PlateNumber,
		VehicleModel:  j.VehicleModel,
		Complaint:     j.Complaint,
		Mechanic:      j.Mechanic,
		Status:        Status(j.Status),
		EstimatedCost: j.EstimatedCost,
		StartedAt:     j.StartedAt,
		FinishedAt:    j.FinishedAt,
		PickedUpAt:    j.PickedUpAt,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func FromDataModelSlice(jobs []*servicejobDatamodel.Job) []*Job {
	out := make([]*Job, len(jobs))
	for i, j := range jobs {
		out[i] = FromDataModel(j)
	}
	return out
}
