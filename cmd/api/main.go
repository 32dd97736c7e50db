// @title           MultiDecode Document Processing API
// @version         1.0
// @description     Upload a document or image, extract its text (with OCR fallback) and get per-chunk keywords, summaries and entities back.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aksharatantra/multidecode/internal/config"
	"github.com/aksharatantra/multidecode/internal/data/store"
	jobmodel "github.com/aksharatantra/multidecode/internal/domain/jobModel"
	"github.com/aksharatantra/multidecode/internal/handlers"
	"github.com/aksharatantra/multidecode/internal/job"
	"github.com/aksharatantra/multidecode/internal/mcpserver"
	"github.com/aksharatantra/multidecode/internal/pipeline"
	"github.com/aksharatantra/multidecode/internal/server"
	"github.com/aksharatantra/multidecode/internal/worker"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

var (
	listenAddr        string
	mcpMode           bool
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.BoolVar(&mcpMode, "mcp", false, "serve MCP tools over stdio instead of HTTP")
	flag.Parse()

	processingPipeline := pipeline.New(pipeline.Config{})

	if mcpMode {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if err := mcpserver.NewServer(processingPipeline).Run(ctx); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          store.GetRedisJobStore(serviceContext),
	}
	logger.Info("Starting job service")

	if serviceConfig.JobStore == nil {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	handlers.InitHandlers(service, processingPipeline)

	//init worker pool
	worker.InitServices(service, processingPipeline)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
