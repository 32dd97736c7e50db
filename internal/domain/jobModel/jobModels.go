package jobModel

import (
	"context"
	"time"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	ProcessInit InternalStatus = "Init"
	Detecting   InternalStatus = "Detecting"
	Extracting  InternalStatus = "Extracting"
	Chunking    InternalStatus = "Chunking"
	Analyzing   InternalStatus = "Analyzing"
	Error       InternalStatus = "Error"
	Complete    InternalStatus = "Complete"
)

type Job struct {
	Id          string                   `json:"id"`
	TraceId     string                   `json:"trace_id"`
	JobPayload  JobPayload               `json:"job_payload"`
	Result      *docmodel.ProcessResult  `json:"result,omitempty"`
	Error       JobError                 `json:"error,omitempty"`
	CreatedTime time.Time                `json:"created_time"`
	EndTime     time.Time                `json:"end_time,omitempty"`
	Status      JobStatus                `json:"status"`
	CurrentStep InternalStatus           `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// JobPayload carries only the upload metadata. The document bytes stay on
// disk until the worker picks them up and are removed after processing.
type JobPayload struct {
	FileName  string   `json:"file_name,omitempty"`
	FilePath  string   `json:"file_path,omitempty"`
	Languages []string `json:"ocr_languages,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
