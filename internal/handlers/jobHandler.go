package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/aksharatantra/multidecode/internal/config"
	"github.com/aksharatantra/multidecode/internal/domain/jobModel"
	"github.com/aksharatantra/multidecode/internal/job"
	"github.com/aksharatantra/multidecode/internal/metrics"
	"github.com/aksharatantra/multidecode/internal/pipeline"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

var (
	handlerInstance    *JobHandler //private singleton
	processingPipeline *pipeline.Pipeline
	once               sync.Once
	logJH              *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
}

func InitHandlers(jobService *job.Service, pipe *pipeline.Pipeline) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}
		processingPipeline = pipe

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logJH.Warn("Empty Job ID")
		return result, false
	}
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.ProcessInit
	_job.JobPayload.FileName = newJob.fileName
	_job.JobPayload.FilePath = newJob.filePath
	_job.JobPayload.Languages = newJob.languages

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//every job here is a heavy document run (extraction + OCR + analysis),
	//so the dispatcher gets a chance to scale up on each one;
	//idle workers retire on their own so we still settle back to one
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
