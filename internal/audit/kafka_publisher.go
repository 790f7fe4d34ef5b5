package audit

import (
	"context"
	"encoding/json"

	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher publishes audit entries to a Kafka topic for downstream
// compliance consumers. Entries are keyed by tenant id so one tenant's
// trail stays ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher creates a new KafkaPublisher
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{
		client: client,
		topic:  topic,
	}, nil
}

// Publish sends one audit entry as a JSON record.
func (p *KafkaPublisher) Publish(ctx context.Context, entry *domain.AuditEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(entry.TenantID),
		Value: value,
	}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

// Close flushes and closes the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
