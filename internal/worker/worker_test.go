package worker

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aksharatantra/multidecode/internal/config"
	"github.com/aksharatantra/multidecode/internal/domain/jobModel"
	"github.com/aksharatantra/multidecode/internal/job"
	"github.com/aksharatantra/multidecode/internal/ocr"
	"github.com/aksharatantra/multidecode/internal/pipeline"
	"github.com/aksharatantra/multidecode/internal/pipeline/analyze"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

type mockEngine struct{}

func (mockEngine) Recognize(context.Context, []byte, []string) (ocr.Result, error) {
	return ocr.Result{Text: "ocr text"}, nil
}

type recordingEngine struct {
	mu   sync.Mutex
	seen []string
}

func (e *recordingEngine) Recognize(_ context.Context, _ []byte, languages []string) (ocr.Result, error) {
	e.mu.Lock()
	e.seen = languages
	e.mu.Unlock()
	return ocr.Result{Text: "ocr text"}, nil
}

type mockTagger struct{}

func (mockTagger) Analyze(text string) (analyze.Tagging, error) {
	return analyze.Tagging{Nouns: analyze.Tokenize(text)}, nil
}

type MockJobStore struct {
	mu    sync.Mutex
	saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, j)
	return nil
}

func (m *MockJobStore) lastStatus() (jobModel.JobStatus, *jobModel.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return "", nil
	}
	last := m.saved[len(m.saved)-1]
	return last.Status, &last
}

func testPipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		Engine:        mockEngine{},
		Tagger:        mockTagger{},
		RasterizerOff: true,
	})
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, testPipeline())
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job to completion", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.txt")
		if err := os.WriteFile(path, []byte("The worker processed this document. It worked."), 0o600); err != nil {
			t.Fatal(err)
		}

		jobSvc.JobChannel <- jobModel.Job{
			Id:      "test-1",
			TraceId: "trace-1",
			JobPayload: jobModel.JobPayload{
				FileName: "doc.txt",
				FilePath: path,
			},
		}

		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if status, _ := jobStore.lastStatus(); status == jobModel.JobStatusComplete {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}

		status, last := jobStore.lastStatus()
		if status != jobModel.JobStatusComplete {
			t.Fatalf("Expected COMPLETE, got %q", status)
		}
		if last.Result == nil || last.Result.TotalChunks != 1 {
			t.Errorf("Expected a one-chunk result, got %+v", last.Result)
		}
		if last.CurrentStep != jobModel.Complete {
			t.Errorf("Expected final step Complete, got %q", last.CurrentStep)
		}

		// the uploaded copy must be gone after processing
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Uploaded file was not removed after processing")
		}
	})

	t.Run("Failed job is stored with error", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{
			Id:         "test-2",
			JobPayload: jobModel.JobPayload{FilePath: "/nonexistent/file.txt"},
		}

		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if status, _ := jobStore.lastStatus(); status == jobModel.JobStatusError {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}

		status, last := jobStore.lastStatus()
		if status != jobModel.JobStatusError {
			t.Fatalf("Expected Error status, got %q", status)
		}
		if last.Error.Message == "" {
			t.Error("Expected a stored error message")
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the full idle timeout")
	}

	// Temporarily override globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, testPipeline())

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// two idle workers; only one may retire, the floor worker stays
	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(200 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != config.MinWorkerCount {
		t.Errorf("Pool should have settled at the floor of %d, but count is %d", config.MinWorkerCount, count)
	}

	close(stopChan)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Floor worker did not stop within timeout")
	}
}

func TestWorker_JobLanguagesReachOCR(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	engine := &recordingEngine{}
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job, 1),
		JobStore:   jobStore,
	}
	InitServices(jobSvc, pipeline.New(pipeline.Config{
		Engine:        engine,
		Tagger:        mockTagger{},
		RasterizerOff: true,
	}))

	atomic.StoreInt64(&currentWorkerCount, 0)
	logger = logger_i.NewLogger("TestWorkerPool")
	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	jobSvc.JobChannel <- jobModel.Job{
		Id: "lang-1",
		JobPayload: jobModel.JobPayload{
			FilePath:  path,
			Languages: []string{"san", "eng"},
		},
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if status, _ := jobStore.lastStatus(); status == jobModel.JobStatusComplete {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	status, _ := jobStore.lastStatus()
	if status != jobModel.JobStatusComplete {
		t.Fatalf("Expected COMPLETE, got %q", status)
	}
	engine.mu.Lock()
	seen := engine.seen
	engine.mu.Unlock()
	if len(seen) != 2 || seen[0] != "san" || seen[1] != "eng" {
		t.Errorf("OCR engine saw languages %v; want [san eng]", seen)
	}

	close(stopChan)
}
