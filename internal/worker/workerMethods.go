package worker

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/aksharatantra/multidecode/internal/config"
	"github.com/aksharatantra/multidecode/internal/domain/jobModel"
	"github.com/aksharatantra/multidecode/internal/metrics"
	"github.com/aksharatantra/multidecode/internal/pipeline"
)

func executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobModel.JobStatusRunning)

	result, err := _pipeline.ProcessFileWithOptions(ctx, job.JobPayload.FilePath, pipeline.ProcessOptions{
		Languages: job.JobPayload.Languages,
		OnStage: func(stage pipeline.Stage) {
			job.CurrentStep = stepForStage(stage)
			saveJobState(ctx, job, jobModel.JobStatusRunning)
		},
	})

	//the uploaded copy is done either way
	if rmErr := os.Remove(job.JobPayload.FilePath); rmErr != nil {
		logger.Error("Error removing file", "error", rmErr)
	}

	job.EndTime = time.Now()
	if err != nil {
		job.CurrentStep = jobModel.Error
		job.Error.Message = err.Error()
		saveJobState(ctx, job, jobModel.JobStatusError)
		return
	}

	job.Result = result
	job.CurrentStep = jobModel.Complete
	saveJobState(ctx, job, jobModel.JobStatusComplete)
}

func stepForStage(stage pipeline.Stage) jobModel.InternalStatus {
	switch stage {
	case pipeline.StageDetecting:
		return jobModel.Detecting
	case pipeline.StageExtracting:
		return jobModel.Extracting
	case pipeline.StageChunking:
		return jobModel.Chunking
	case pipeline.StageAnalyzing:
		return jobModel.Analyzing
	}
	return jobModel.ProcessInit
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
