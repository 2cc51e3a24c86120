package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	eventsKafka "github.com/frahmantamala/bengkelku/internal/core/events/kafka"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events through the event bus and inspect the known event types`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus, forwarding it to kafka when enabled`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lg, err := setup()
		if err != nil {
			return err
		}
		return publishTestEvent(cmd.Context(), cfg.Events.Kafka, lg, args[0])
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "types",
	Short: "List domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var eventData string

func publishTestEvent(ctx context.Context, cfg internal.KafkaConfig, lg *slog.Logger, eventType string) error {
	if !slices.Contains(events.AllEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		lg.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	if cfg.Enabled {
		forwarder := eventsKafka.NewForwarder(eventsKafka.NewWriter(cfg), cfg.Topic, lg)
		defer forwarder.Close()
		forwarder.Attach(bus)
	}

	event := events.New(eventType, map[string]interface{}{
		"message": eventData,
		"source":  "cli-command",
	})
	lg.Info("publishing test event", "event_type", eventType, "event_id", event.ID)

	if err := bus.PublishSync(ctx, event); err != nil {
		return err
	}
	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventsCmd)

	rootCmd.AddCommand(eventCmd)
}
