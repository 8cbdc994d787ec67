package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// lastStatusKey is the KV key holding the most recent ingestion job status
const lastStatusKey = "ingestion:last_status"

// StartIngestionJobAPI is the subset of the Bedrock agent client used by the
// ingestion service
type StartIngestionJobAPI interface {
	StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error)
}

// Service triggers knowledge base ingestion jobs. Fire-and-forget: the job
// runs in the managed service, no polling and no retry here.
type Service struct {
	client          StartIngestionJobAPI
	knowledgeBaseID string
	dataSourceID    string
	kv              interfaces.KeyValueStorage
	events          interfaces.EventService
	logger          arbor.ILogger
}

// NewService creates the ingestion trigger service
func NewService(client StartIngestionJobAPI, config *common.Config, kv interfaces.KeyValueStorage, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		client:          client,
		knowledgeBaseID: config.KnowledgeBase.ID,
		dataSourceID:    config.KnowledgeBase.DataSourceID,
		kv:              kv,
		events:          events,
		logger:          logger,
	}
}

// Trigger starts an ingestion job and records its status
func (s *Service) Trigger(ctx context.Context) (*models.IngestionStatus, error) {
	if s.dataSourceID == "" {
		return nil, fmt.Errorf("knowledge_base.data_source_id is not configured")
	}

	status := &models.IngestionStatus{TriggeredAt: time.Now()}

	output, err := s.client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.knowledgeBaseID),
		DataSourceId:    aws.String(s.dataSourceID),
	})
	if err != nil {
		status.Status = models.IngestionStatusFailed
		status.Error = err.Error()
		s.saveStatus(ctx, status)
		return nil, fmt.Errorf("failed to start ingestion job: %w", err)
	}

	status.Status = models.IngestionStatusStarted
	if output.IngestionJob != nil && output.IngestionJob.IngestionJobId != nil {
		status.JobID = *output.IngestionJob.IngestionJobId
	}
	s.saveStatus(ctx, status)

	s.logger.Info().
		Str("job_id", status.JobID).
		Str("knowledge_base", s.knowledgeBaseID).
		Msg("Ingestion job started")

	if s.events != nil {
		s.events.Publish(ctx, interfaces.Event{Type: interfaces.EventIngestionTriggered, Payload: status})
	}

	return status, nil
}

// LastStatus returns the most recently recorded ingestion status, or nil
// when no job was ever triggered
func (s *Service) LastStatus(ctx context.Context) (*models.IngestionStatus, error) {
	value, err := s.kv.Get(ctx, lastStatusKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var status models.IngestionStatus
	if err := json.Unmarshal([]byte(value), &status); err != nil {
		return nil, fmt.Errorf("stored ingestion status is corrupt: %w", err)
	}
	return &status, nil
}

func (s *Service) saveStatus(ctx context.Context, status *models.IngestionStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, lastStatusKey, string(data), "Most recent ingestion job status"); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record ingestion status")
	}
}
