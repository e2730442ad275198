package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPlanCommitted(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event PlanCommittedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypePlanCommitted {
			return errors.New("unexpected event type " + event.EventType)
		}
		if _, err := uuid.Parse(event.EventID); err != nil {
			return err
		}
		if event.BatchID != "batch-1" || event.PlannedQuantity != 20 {
			return errors.New("event payload does not match the committed plan")
		}
		if event.Timestamp.IsZero() {
			return errors.New("missing event timestamp")
		}
		return nil
	})

	publisher := &Publisher{producer: producer}
	err := publisher.PublishPlanCommitted(context.Background(), PlanCommittedEvent{
		BatchID:         "batch-1",
		OrderID:         7,
		PlanID:          3,
		ProductID:       1,
		ProductName:     "tractor",
		DepartmentID:    1,
		DepartmentName:  "assembly",
		PlannedQuantity: 20,
		StartDate:       "2026-09-01",
		EndDate:         "2026-10-01",
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishPlanCommittedProducerFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	publisher := &Publisher{producer: producer}
	err := publisher.PublishPlanCommitted(context.Background(), PlanCommittedEvent{BatchID: "batch-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
