package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aksharatantra/multidecode/internal/adapter"
	"github.com/aksharatantra/multidecode/internal/adapter/utils"
	"github.com/aksharatantra/multidecode/internal/api"
	"github.com/aksharatantra/multidecode/internal/config"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id        string
	fileName  string
	filePath  string
	traceId   string
	languages []string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ProcessHandler godoc
// @Summary      Process a document synchronously
// @Description  Receives a file via multipart/form-data, runs the extraction and analysis pipeline and returns the full result.
// @Tags         Processing
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The document or image to process"
// @Success      200  {object}  docmodel.ProcessResult
// @Failure      400  {object}  api.ErrorResponse "Unknown file type or bad upload"
// @Failure      415  {object}  api.ErrorResponse "Unsupported file type"
// @Failure      500  {object}  api.ErrorResponse "Extraction, OCR or analysis failure"
// @Router       /process [post]
func ProcessHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}

	filePath, errString := saveUpload(r)
	if errString != "" {
		writeJsonResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: errString})
		return
	}
	// the upload copy has no life past this request
	defer func() {
		if err := os.Remove(filePath); err != nil {
			logRH.Error("Couldn't remove uploaded file", "path", filePath, "error", err)
		}
	}()

	result, err := processingPipeline.ProcessFile(r.Context(), filePath)
	if err != nil {
		logRH.Error("Processing failed", "error", err)
		writeJsonResponse(w, statusForError(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	writeJsonResponse(w, http.StatusOK, result)
}

// ProcessAsyncHandler godoc
// @Summary      Queue a document processing job
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory and queues a processing job.
// @Tags         Processing
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "The document or image to process"
// @Param        languages  formData  string  false  "Comma-separated OCR languages, e.g. eng,san"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing file or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /process/async [post]
func ProcessAsyncHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}

	filePath, errString := saveUpload(r)
	if errString != "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", errString)
		return
	}

	newJob := newJobData{
		id:        utils.GetNewUUID(),
		fileName:  filepath.Base(filePath),
		filePath:  filePath,
		traceId:   r.Context().Value(config.TRACE_ID_KEY).(string),
		languages: splitLanguages(r.FormValue("languages")),
	}
	CreateNewJob(newJob)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a processing job, including the result once complete.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse "The current status of the job"
// @Failure      404  {object}  api.JobResponse "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "addr", r.RemoteAddr)
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := GetJobStatus(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// splitLanguages parses the optional comma-separated "languages" form field
// ("eng,san"). The requested set is recorded on the job payload.
func splitLanguages(raw string) []string {
	if raw == "" {
		return nil
	}
	var langs []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// saveUpload writes the multipart "file" field to the temporary upload
// directory and returns its path, or a user-facing error string.
func saveUpload(r *http.Request) (string, string) {
	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		return "", errString
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		return "", "File too large or bad request"
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		return "", "No file uploaded"
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", "Storage error"
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", "Write error"
	}
	return tempFilePath, ""
}
