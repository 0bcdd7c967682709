package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/segmentio/kafka-go"
)

var _ port.ReportSink = (*Kafka)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes one message per report row, keyed by label.
type Kafka struct {
	writer messageWriter
	topic  string
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (s *Kafka) Name() string {
	return "kafka:" + s.topic
}

// RowMessage is the payload of a published row.
type RowMessage struct {
	Label      model.BucketKey `json:"_id"`
	Count      int64           `json:"value"`
	Report     string          `json:"report"`
	Collection string          `json:"collection"`
	Output     string          `json:"output"`
	RunID      string          `json:"run_id"`
}

// Messages encodes the rows of the report.
func Messages(report *model.Report, output string) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, len(report.Rows))
	for i, row := range report.Rows {
		value, err := json.Marshal(RowMessage{
			Label:      row.Label,
			Count:      row.Count,
			Report:     report.Name,
			Collection: report.Collection,
			Output:     output,
			RunID:      report.RunID,
		})
		if err != nil {
			return nil, err
		}
		msgs[i] = kafka.Message{
			Key:   []byte(row.Label),
			Value: value,
			Headers: []kafka.Header{
				{Key: "report", Value: []byte(report.Name)},
			},
			Time: report.GeneratedAt,
		}
	}
	return msgs, nil
}

func (s *Kafka) Emit(ctx context.Context, report *model.Report, output string) error {
	msgs, err := Messages(report, output)
	if err != nil {
		return err
	}
	err = s.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		affected := 0
		var werrs kafka.WriteErrors
		if errors.As(err, &werrs) {
			affected = len(msgs) - werrs.Count()
		}
		return &model.WriteError{
			Collection: s.Name(),
			Affected:   affected,
			Err:        fmt.Errorf("publish %d rows: %w", len(msgs), err),
		}
	}
	return nil
}

func (s *Kafka) Close() error {
	return s.writer.Close()
}
