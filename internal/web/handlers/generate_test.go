package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// waitForJob polls until the job reaches a terminal status.
func waitForJob(t *testing.T, jm *JobManager, jobID string) *RenderJob {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		job := jm.GetJob(jobID)
		if job == nil {
			t.Fatalf("job %s disappeared", jobID)
		}
		if isJobTerminal(job.GetStatus()) {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestGenerateHandler_StartAndComplete(t *testing.T) {
	root := t.TempDir()
	writeTestBook(t, root, "alpha", "The cat sat.\n\nThe dog ran.", 2)

	jm := NewJobManager()
	h := NewGenerateHandler(testGenerator(t, root), jm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate",
		strings.NewReader(`{"book": "alpha"}`))
	h.Start(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusAccepted, w.Body.String())
	}

	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("job_id is empty")
	}

	job := waitForJob(t, jm, resp.JobID)
	if job.GetStatus() != JobStatusCompleted {
		t.Fatalf("job status = %s, want %s (error: %s)", job.GetStatus(), JobStatusCompleted, job.Error)
	}
	if job.Result == nil || job.Result.InteriorPath == "" || job.Result.CoverPath == "" {
		t.Errorf("job result incomplete: %+v", job.Result)
	}
}

func TestGenerateHandler_StartMissingBook(t *testing.T) {
	jm := NewJobManager()
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), jm)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate",
		strings.NewReader(`{"book": "ghost"}`))
	h.Start(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusAccepted)
	}

	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	job := waitForJob(t, jm, resp.JobID)
	if job.GetStatus() != JobStatusFailed {
		t.Errorf("job status = %s, want %s", job.GetStatus(), JobStatusFailed)
	}
	if job.Error == "" {
		t.Error("failed job should carry an error message")
	}
}

func TestGenerateHandler_StartInvalidBody(t *testing.T) {
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), NewJobManager())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", strings.NewReader("not json"))
	h.Start(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateHandler_StartInvalidName(t *testing.T) {
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), NewJobManager())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate",
		strings.NewReader(`{"book": "../escape"}`))
	h.Start(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateHandler_Status(t *testing.T) {
	jm := NewJobManager()
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), jm)
	job := jm.CreateJob("job-1", "alpha")
	job.SetStatus(JobStatusRunning)

	w := httptest.NewRecorder()
	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/generate/job-1", nil),
		map[string]string{"jobId": "job-1"},
	)
	h.Status(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		ID     string `json:"id"`
		Book   string `json:"book"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "job-1" || resp.Book != "alpha" || resp.Status != string(JobStatusRunning) {
		t.Errorf("unexpected job payload: %+v", resp)
	}
}

func TestGenerateHandler_StatusNotFound(t *testing.T) {
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), NewJobManager())

	w := httptest.NewRecorder()
	req := requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/api/v1/generate/ghost", nil),
		map[string]string{"jobId": "ghost"},
	)
	h.Status(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGenerateHandler_Cancel(t *testing.T) {
	jm := NewJobManager()
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), jm)
	job := jm.CreateJob("job-1", "alpha")
	job.SetStatus(JobStatusRunning)

	w := httptest.NewRecorder()
	req := requestWithChiParams(
		httptest.NewRequest(http.MethodDelete, "/api/v1/generate/job-1", nil),
		map[string]string{"jobId": "job-1"},
	)
	h.Cancel(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := job.GetStatus(); got != JobStatusCancelled {
		t.Errorf("job status = %s, want %s", got, JobStatusCancelled)
	}
}

func TestGenerateHandler_CancelFinishedJob(t *testing.T) {
	jm := NewJobManager()
	h := NewGenerateHandler(testGenerator(t, t.TempDir()), jm)
	job := jm.CreateJob("job-1", "alpha")
	job.Complete(&RenderJobResult{InteriorPath: "a.pdf", CoverPath: "b.pdf"})

	w := httptest.NewRecorder()
	req := requestWithChiParams(
		httptest.NewRequest(http.MethodDelete, "/api/v1/generate/job-1", nil),
		map[string]string{"jobId": "job-1"},
	)
	h.Cancel(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusConflict)
	}
}
