package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/bookpress/internal/book"
)

// GenerateHandler starts and tracks async render jobs.
type GenerateHandler struct {
	generator  *book.Generator
	jobManager *JobManager
}

// NewGenerateHandler creates a generate handler.
func NewGenerateHandler(generator *book.Generator, jobManager *JobManager) *GenerateHandler {
	return &GenerateHandler{generator: generator, jobManager: jobManager}
}

type generateRequest struct {
	Book        string `json:"book"`
	Concurrency int    `json:"concurrency,omitempty"`
}

// Start handles POST /api/v1/generate: it kicks off a render job for
// one book and returns the job ID immediately.
func (h *GenerateHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if !validBookName(req.Book) {
		respondError(w, http.StatusBadRequest, "invalid book name")
		return
	}

	job := h.jobManager.CreateJob(uuid.New().String(), req.Book)
	ctx, cancel := context.WithCancel(context.Background())
	job.SetCancel(cancel)

	go h.run(ctx, job, req)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": string(job.GetStatus()),
	})
}

// run executes the render job in the background.
func (h *GenerateHandler) run(ctx context.Context, job *RenderJob, req generateRequest) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Render job %s panicked: %v", job.ID, r)
			job.Fail("internal rendering error")
		}
	}()

	job.SetStatus(JobStatusRunning)
	job.SendEvent(JobEvent{Type: "started", Message: "Rendering " + job.Book})

	opts := book.AssembleOptions{
		Concurrency: req.Concurrency,
		OnProgress: func(info book.ProgressInfo) {
			job.SetProgress(info.Current, info.Total)
			job.SendEvent(JobEvent{Type: "progress", Data: info})
		},
	}

	result, err := h.generator.GenerateBook(ctx, job.Book, opts)
	if err != nil {
		if job.GetStatus() == JobStatusCancelled {
			return
		}
		log.Printf("Render job %s failed for book %s: %v", job.ID, sanitizeForLog(job.Book), err)
		job.Fail(err.Error())
		job.SendEvent(JobEvent{Type: "failed", Message: err.Error()})
		return
	}

	for _, warning := range result.Warnings {
		job.SendEvent(JobEvent{Type: "warning", Message: warning})
	}
	job.Complete(&RenderJobResult{
		InteriorPath: result.InteriorPath,
		CoverPath:    result.CoverPath,
		Warnings:     result.Warnings,
	})
	job.SendEvent(JobEvent{Type: "completed", Data: job.Result})
}

// Status handles GET /api/v1/generate/{jobId}.
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Events handles GET /api/v1/generate/{jobId}/events via SSE.
func (h *GenerateHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if job := h.jobManager.GetJob(id); job != nil {
				return job
			}
			return nil
		},
		func(job SSEJob) any {
			return job.(*RenderJob)
		},
	)
}

// Cancel handles DELETE /api/v1/generate/{jobId}.
func (h *GenerateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.jobManager.GetJob(chi.URLParam(r, "jobId"))
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if isJobTerminal(job.GetStatus()) {
		respondError(w, http.StatusConflict, "job already finished")
		return
	}
	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]string{"status": string(job.GetStatus())})
}
