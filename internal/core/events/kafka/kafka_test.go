package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	eventsKafka "github.com/frahmantamala/bengkelku/internal/core/events/kafka"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"
)

func TestKafka(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Kafka Forwarder Suite")
}

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func (w *fakeWriter) Messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

type fakeReader struct {
	queue []kafka.Message
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		return kafka.Message{}, context.Canceled
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

var _ = Describe("Forwarder", func() {
	var (
		writer *fakeWriter
		cfg    internal.KafkaConfig
		fwd    *eventsKafka.Forwarder
	)

	BeforeEach(func() {
		writer = &fakeWriter{}
		cfg = internal.KafkaConfig{TopicPrefix: "bengkelku"}
		fwd = eventsKafka.NewForwarder(writer, cfg.Topic, logger.Discard())
	})

	It("writes an envelope to the prefixed topic", func() {
		event := events.NewBalanceChanged(events.EventTypeInstallmentRecorded, 1, 2, "payment", "400000", "600000", "partially_paid")
		Expect(fwd.Handle(context.Background(), event)).To(Succeed())

		msgs := writer.Messages()
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Topic).To(Equal("bengkelku.loan.installment_recorded"))
		Expect(string(msgs[0].Key)).To(Equal(event.EventID()))

		var env eventsKafka.Envelope
		Expect(json.Unmarshal(msgs[0].Value, &env)).To(Succeed())
		Expect(env.Type).To(Equal(events.EventTypeInstallmentRecorded))

		var data map[string]any
		Expect(json.Unmarshal(env.Data, &data)).To(Succeed())
		Expect(data).To(HaveKeyWithValue("running", "600000"))
	})

	It("receives bus events once attached", func() {
		bus := events.NewEventBus(logger.Discard())
		fwd.Attach(bus)

		Expect(bus.Publish(context.Background(), events.NewGoodsReceived(9, "fully_received", "INV-1", 2, 1))).To(Succeed())
		bus.Wait()

		Expect(writer.Messages()).To(HaveLen(1))
		Expect(writer.Messages()[0].Topic).To(Equal("bengkelku.purchasing.goods_received"))
	})

	It("reports writer failures", func() {
		writer.err = errors.New("broker down")
		err := fwd.Handle(context.Background(), events.New(events.EventTypeSaleRecorded, nil))
		Expect(err).To(MatchError(ContainSubstring("broker down")))
	})
})

var _ = Describe("Consumer", func() {
	It("decodes envelopes and skips malformed messages", func() {
		good, err := json.Marshal(eventsKafka.Envelope{ID: "e1", Type: events.EventTypeSaleRecorded, Data: json.RawMessage(`{}`)})
		Expect(err).NotTo(HaveOccurred())

		reader := &fakeReader{queue: []kafka.Message{
			{Value: []byte("not json")},
			{Value: good},
		}}
		consumer := eventsKafka.NewConsumer(reader, logger.Discard())

		var seen []string
		err = consumer.Run(context.Background(), func(_ context.Context, env eventsKafka.Envelope) error {
			seen = append(seen, env.ID)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]string{"e1"}))
	})
})

var _ = Describe("BrokerPinger", func() {
	It("fails without brokers", func() {
		err := eventsKafka.NewBrokerPinger(nil).PingContext(context.Background())
		Expect(err).To(MatchError(ContainSubstring("no kafka brokers")))
	})

	It("fails when no broker answers", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := eventsKafka.NewBrokerPinger([]string{"127.0.0.1:1"}).PingContext(ctx)
		Expect(err).To(MatchError(ContainSubstring("kafka unreachable")))
	})
})
