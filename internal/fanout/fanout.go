// Package fanout mails a channel broadcast to every follower of the channel.
//
// Sends are best-effort: each recipient is attempted independently, failures
// are logged and counted but never retried, and nothing is rolled back.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"forum/internal/models"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type FollowerStore interface {
	FetchFollowerUserIDs(ctx context.Context, channelID int64) ([]int64, error)
	FetchUserEmail(ctx context.Context, userID int64) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Report summarises one fanout. Skipped counts followers without an email
// address; Failed counts address lookups and sends that errored.
type Report struct {
	Followers int `json:"followers"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type Dispatcher struct {
	store   FollowerStore
	mailer  Mailer
	workers int
	log     *zap.Logger

	background conc.WaitGroup
}

func NewDispatcher(store FollowerStore, mailer Mailer, workers int, log *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		store:   store,
		mailer:  mailer,
		workers: workers,
		log:     log.Named("fanout"),
	}
}

type recipient struct {
	userID int64
	email  string
}

// Dispatch sends msg to every follower of channelID and waits for all sends
// to finish. Only a failure to load the follower set is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, channelID int64, msg models.Message) (Report, error) {
	recipients, report, err := d.resolve(ctx, channelID)
	if err != nil {
		return Report{}, err
	}
	sent, failed := d.send(ctx, channelID, recipients, msg)
	report.Sent = sent
	report.Failed += failed
	return report, nil
}

// DispatchAsync resolves the recipients, then sends in the background,
// detached from ctx cancellation. It returns the number of addressed
// recipients. Use Wait to drain outstanding sends.
func (d *Dispatcher) DispatchAsync(ctx context.Context, channelID int64, msg models.Message) (int, error) {
	recipients, report, err := d.resolve(ctx, channelID)
	if err != nil {
		return 0, err
	}
	detached := context.WithoutCancel(ctx)
	d.background.Go(func() {
		sent, failed := d.send(detached, channelID, recipients, msg)
		d.log.Info("Fanout finished",
			zap.Int64("channel_id", channelID),
			zap.Int("followers", report.Followers),
			zap.Int("sent", sent),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed+failed))
	})
	return len(recipients), nil
}

// Wait blocks until every fanout started by DispatchAsync has finished.
func (d *Dispatcher) Wait() {
	d.background.Wait()
}

func (d *Dispatcher) resolve(ctx context.Context, channelID int64) ([]recipient, Report, error) {
	userIDs, err := d.store.FetchFollowerUserIDs(ctx, channelID)
	if err != nil {
		d.log.Error("Failed to fetch followers", zap.Int64("channel_id", channelID), zap.Error(err))
		return nil, Report{}, fmt.Errorf("fetch followers of channel %d: %w", channelID, err)
	}

	report := Report{Followers: len(userIDs)}
	recipients := make([]recipient, 0, len(userIDs))
	for _, userID := range userIDs {
		email, err := d.store.FetchUserEmail(ctx, userID)
		switch {
		case errors.Is(err, models.ErrNotFound) || (err == nil && email == ""):
			report.Skipped++
		case err != nil:
			d.log.Warn("Failed to resolve follower email", zap.Int64("user_id", userID), zap.Error(err))
			report.Failed++
		default:
			recipients = append(recipients, recipient{userID: userID, email: email})
		}
	}
	return recipients, report, nil
}

func (d *Dispatcher) send(ctx context.Context, channelID int64, recipients []recipient, msg models.Message) (int, int) {
	var sent, failed atomic.Int64
	p := pool.New().WithMaxGoroutines(d.workers)
	for _, r := range recipients {
		r := r
		p.Go(func() {
			if err := d.mailer.Send(ctx, r.email, msg.Subject, msg.Body); err != nil {
				d.log.Warn("Failed to send mail",
					zap.Int64("channel_id", channelID),
					zap.Int64("user_id", r.userID),
					zap.String("to", r.email),
					zap.Error(err))
				failed.Add(1)
				return
			}
			sent.Add(1)
		})
	}
	p.Wait()
	return int(sent.Load()), int(failed.Load())
}
