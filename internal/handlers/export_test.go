// internal/handlers/export_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/handlers"
	"github.com/ammerola/lavka-be/internal/workers"
	"github.com/ammerola/lavka-be/test/helpers"
	"github.com/ammerola/lavka-be/test/mocks"
)

func TestExportHandler_JobStatus(t *testing.T) {
	jobID := uuid.New().String()

	tests := []struct {
		name           string
		jobID          string
		setupMocks     func(kv *mocks.MockKeyValueStore)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:  "completed_job",
			jobID: jobID,
			setupMocks: func(kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), workers.JobStatusKey(jobID), gomock.Any()).
					DoAndReturn(func(ctx context.Context, key string, dest any) error {
						status := dest.(*workers.ExportJobStatus)
						status.JobID = jobID
						status.Status = workers.StatusCompleted
						status.Key = "exports/user-123/20260901/invoice.pdf"
						status.StartedAt = time.Now().Add(-time.Minute)
						return nil
					})
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var status workers.ExportJobStatus
				require.NoError(t, json.Unmarshal(body, &status))
				assert.Equal(t, workers.StatusCompleted, status.Status)
				assert.NotEmpty(t, status.Key)
			},
		},
		{
			name:  "unknown_job",
			jobID: jobID,
			setupMocks: func(kv *mocks.MockKeyValueStore) {
				kv.EXPECT().
					Get(gomock.Any(), workers.JobStatusKey(jobID), gomock.Any()).
					Return(ports.ErrKeyNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed_job_id",
			jobID:          "not-a-uuid",
			setupMocks:     func(kv *mocks.MockKeyValueStore) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			kv := mocks.NewMockKeyValueStore(ctrl)
			tt.setupMocks(kv)

			// The asynq client is only touched by the enqueue paths
			h := handlers.NewExportHandler(nil, kv, helpers.TestLogger())

			req := authedRequest(http.MethodGet, "/api/v1/exports/jobs/"+tt.jobID, nil)
			req.SetPathValue("id", tt.jobID)
			rec := httptest.NewRecorder()

			h.JobStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, rec.Body.Bytes())
			}
		})
	}
}
