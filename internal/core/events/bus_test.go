package events_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers async events to every subscriber", func() {
		var calls int32
		handler := func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}
		bus.Subscribe(events.EventTypeSaleRecorded, handler)
		bus.Subscribe(events.EventTypeSaleRecorded, handler)

		Expect(bus.Publish(context.Background(), events.New(events.EventTypeSaleRecorded, nil))).To(Succeed())
		bus.Wait()
		Expect(atomic.LoadInt32(&calls)).To(BeEquivalentTo(2))
	})

	It("keeps running handlers after the publishing context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		var sawErr atomic.Value
		bus.Subscribe(events.EventTypeGoodsReceived, func(ctx context.Context, e events.Event) error {
			sawErr.Store(ctx.Err() == nil)
			return nil
		})
		Expect(bus.Publish(ctx, events.NewGoodsReceived(1, "partially_received", "", 1, 0))).To(Succeed())
		cancel()
		bus.Wait()
		Expect(sawErr.Load()).To(BeTrue())
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeDebtWrittenOff, func(ctx context.Context, e events.Event) error {
			return errors.New("nope")
		})
		err := bus.PublishSync(context.Background(), events.New(events.EventTypeDebtWrittenOff, nil))
		Expect(err).To(MatchError(ContainSubstring("nope")))
	})

	It("ignores events without subscribers", func() {
		Expect(bus.PublishSync(context.Background(), events.New("unknown", nil))).To(Succeed())
	})
})
