package workflow

import (
	"encoding/json"
	"testing"

	"github.com/contentlens/insight_backend/models"
	"github.com/google/uuid"
)

func TestNewProcessingJobMessage(t *testing.T) {
	job := &models.ProcessingJob{
		ID:            uuid.New(),
		ContentItemId: uuid.New(),
		UserId:        42,
	}

	msg := newProcessingJobMessage(job, "req-abc123")

	if msg.JobId != job.ID.String() {
		t.Errorf("JobId = %q, want %q", msg.JobId, job.ID.String())
	}
	if msg.ContentItemId != job.ContentItemId.String() {
		t.Errorf("ContentItemId = %q, want %q", msg.ContentItemId, job.ContentItemId.String())
	}
	if msg.UserId != "42" {
		t.Errorf("UserId = %q, want %q", msg.UserId, "42")
	}
	if msg.CorrelationId != "req-abc123" {
		t.Errorf("CorrelationId = %q", msg.CorrelationId)
	}
	if msg.QueuedAt.IsZero() {
		t.Error("QueuedAt was not stamped")
	}

	// Consumers parse the wire form; ids must come through as strings.
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, ok := decoded["job_id"].(string); !ok || got != job.ID.String() {
		t.Errorf("wire job_id = %v, want string %q", decoded["job_id"], job.ID.String())
	}
	if got, ok := decoded["content_item_id"].(string); !ok || got != job.ContentItemId.String() {
		t.Errorf("wire content_item_id = %v", decoded["content_item_id"])
	}
	if got, ok := decoded["user_id"].(string); !ok || got != "42" {
		t.Errorf("wire user_id = %v, want string \"42\"", decoded["user_id"])
	}
}
