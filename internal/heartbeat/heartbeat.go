package heartbeat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// KeepAliver is the part of the hub client a heartbeat needs.
type KeepAliver interface {
	KeepAlive(ctx context.Context, serverID int64, serverAddr string) error
}

type Stats struct {
	Beats     int64
	Failures  int64
	LastBeat  time.Time
	LastError error
}

// Heartbeat periodically tells the hub that a game server is alive at a
// given address. A failed beat is logged and counted; the next tick tries
// again.
type Heartbeat struct {
	client     KeepAliver
	serverID   int64
	serverAddr string
	interval   time.Duration

	scheduler *gocron.Scheduler
	cancel    context.CancelFunc

	mu    sync.Mutex
	stats Stats
}

func New(client KeepAliver, serverID int64, serverAddr string, interval time.Duration) (*Heartbeat, error) {
	if client == nil {
		return nil, errors.New("heartbeat requires a hub client")
	}
	if len(serverAddr) == 0 {
		return nil, errors.New("heartbeat requires a server address")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid heartbeat interval: %s", interval)
	}

	return &Heartbeat{
		client:     client,
		serverID:   serverID,
		serverAddr: serverAddr,
		interval:   interval,
	}, nil
}

// Beat sends a single keep-alive.
func (h *Heartbeat) Beat(ctx context.Context) error {

	err := h.client.KeepAlive(ctx, h.serverID, h.serverAddr)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.LastError = err
	if err != nil {
		h.stats.Failures++
		logrus.WithFields(logrus.Fields{
			"serverId":   h.serverID,
			"serverAddr": h.serverAddr,
		}).WithError(err).Warnln("Keep-alive failed")
		return err
	}

	h.stats.Beats++
	h.stats.LastBeat = time.Now()

	logrus.WithFields(logrus.Fields{
		"serverId":   h.serverID,
		"serverAddr": h.serverAddr,
		"beats":      h.stats.Beats,
	}).Debugln("Keep-alive sent")

	return nil
}

// Start schedules beats every interval, the first one immediately. Beats
// never overlap; a slow hub delays the next tick instead.
func (h *Heartbeat) Start(ctx context.Context) error {

	if h.scheduler != nil {
		return errors.New("heartbeat already started")
	}

	ctx, cancel := context.WithCancel(ctx)

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(h.interval).Do(func() {
		if ctx.Err() != nil {
			return
		}
		_ = h.Beat(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule keep-alive: %w", err)
	}

	h.scheduler = scheduler
	h.cancel = cancel

	logrus.WithFields(logrus.Fields{
		"serverId": h.serverID,
		"interval": h.interval.String(),
	}).Infoln("Starting keep-alive heartbeat")

	scheduler.StartAsync()
	return nil
}

func (h *Heartbeat) Stop() {
	if h.scheduler == nil {
		return
	}
	h.cancel()
	h.scheduler.Stop()
	h.scheduler = nil
}

func (h *Heartbeat) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}
