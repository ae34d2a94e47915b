package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/logisticair/crewops/internal/model"
)

// FlightSource is the slice of the flights client the consumer needs.
type FlightSource interface {
    List(ctx context.Context) ([]model.Flight, error)
}

// RunRecorder is the slice of the sync-run repository the consumer needs.
type RunRecorder interface {
    Insert(ctx context.Context, s model.SyncRun) (uint64, error)
}

// SyncConsumer listens on the sync.requested queue and executes each
// request: it pulls the flight list from the external backend and
// records the outcome as one sync_runs audit row.  It runs a reconnect
// loop with exponential backoff and keeps operating across broker
// restarts; processing errors are logged and the offending message is
// rejected without requeue to avoid tight loops.
type SyncConsumer struct {
    BrokerURL string
    Source    FlightSource
    Runs      RunRecorder
    Label     string // data-source label written on each run
    Log       *zap.Logger
}

// Start blocks, consuming sync requests until the process exits.
func (c *SyncConsumer) Start() error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.BrokerURL)
        if err != nil {
            c.Log.Warn("sync-consumer: dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := c.consumeLoop(conn); err != nil {
            c.Log.Warn("sync-consumer: consume loop ended, reconnecting", zap.Error(err))
            time.Sleep(2 * time.Second)
        }
    }
}

func (c *SyncConsumer) consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        c.Log.Warn("sync-consumer: set QoS failed", zap.Error(err))
    }

    if _, err := ch.QueueDeclare(SyncQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(SyncQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handleMessage(d.Body); err != nil {
            c.Log.Error("sync-consumer: handle message failed", zap.Error(err))
            _ = d.Nack(false, false) // reject, do not requeue
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// handleMessage performs one synchronization and records its audit row.
// A failed fetch is still a recorded run (status ERROR), matching the
// history the console displays.
func (c *SyncConsumer) handleMessage(body []byte) error {
    var ev SyncRequestedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    run := model.SyncRun{
        ExecutedAt: time.Now().UTC(),
        DataSource: c.Label,
        Status:     model.SyncOK,
        Message:    "Synchronization completed successfully.",
    }

    flights, err := c.Source.List(ctx)
    if err != nil {
        run.Status = model.SyncError
        run.Errors = 1
        run.Message = "Connection to the data source failed."
        c.Log.Warn("sync-consumer: flight fetch failed", zap.String("request_id", ev.RequestID), zap.Error(err))
    } else {
        run.FlightsRead = len(flights)
        run.FlightsUpdated = len(flights)
    }

    id, err := c.Runs.Insert(ctx, run)
    if err != nil {
        return fmt.Errorf("record sync run: %w", err)
    }
    c.Log.Info("sync-consumer: run recorded",
        zap.Uint64("run_id", id),
        zap.String("request_id", ev.RequestID),
        zap.String("status", string(run.Status)),
        zap.Int("flights_read", run.FlightsRead))
    return nil
}
