package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	eventsKafka "github.com/frahmantamala/bengkelku/internal/core/events/kafka"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that react to domain events published by the API.`,
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume domain events from kafka",
	Long:  `Read every domain event topic as one consumer group and log each envelope.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startEventWorker()
	},
}

func startEventWorker() error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	if !cfg.Events.Kafka.Enabled {
		return fmt.Errorf("events.kafka.enabled is false; nothing to consume")
	}

	consumer := eventsKafka.NewConsumer(eventsKafka.NewReader(cfg.Events.Kafka), lg)
	defer func() {
		if err := consumer.Close(); err != nil {
			lg.Error("kafka reader close error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("event worker started", "group_id", cfg.Events.Kafka.GroupID, "brokers", cfg.Events.Kafka.Brokers)
	err = consumer.Run(ctx, func(_ context.Context, env eventsKafka.Envelope) error {
		lg.Info("domain event",
			"event_id", env.ID,
			"event_type", env.Type,
			"occurred_at", env.OccurredAt,
			"data", string(env.Data))
		return nil
	})
	lg.Info("event worker stopped")
	return err
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
