package activity

import (
	"context"
	"errors"
	"time"

	"github.com/hereafter-labs/will-registry-api/wills"
	log "github.com/sirupsen/logrus"
)

// Monitor periodically sweeps for wills whose owners have gone quiet
// past their activity threshold and fires their switches.
type Monitor struct {
	ticker   *time.Ticker
	done     chan bool
	wills    *wills.Service
	interval time.Duration
}

func NewMonitor(ws *wills.Service, interval time.Duration) *Monitor {
	return &Monitor{nil, make(chan bool), ws, interval}
}

func (m *Monitor) Start() *Monitor {
	if m.ticker != nil {
		return m
	}

	m.ticker = time.NewTicker(m.interval)

	go func() {
		ctx := context.Background()

		for {
			select {
			case <-m.done:
				return
			case <-m.ticker.C:
				m.sweep(ctx)
			}
		}
	}()

	return m
}

func (m *Monitor) Stop() {
	m.ticker.Stop()
	m.done <- true
	m.ticker = nil
}

func (m *Monitor) sweep(ctx context.Context) {
	ww, err := m.wills.OverdueWills()
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while scanning for overdue wills")
		return
	}

	for _, w := range ww {
		if _, err := m.wills.TriggerDeadManSwitch(ctx, w.ID); err != nil {
			// Another caller may have won the race since the scan.
			if errors.Is(err, wills.ErrSwitchAlreadyTriggered) || errors.Is(err, wills.ErrThresholdNotReached) {
				continue
			}
			log.WithFields(log.Fields{"error": err, "willId": w.ID}).Warn("Error while triggering dead man's switch")
		}
	}
}
