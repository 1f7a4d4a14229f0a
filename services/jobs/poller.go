package jobs

import (
	"gestionale_veicoli_go/config"
	"gestionale_veicoli_go/services"
	"log"
	"time"

	"gorm.io/gorm"
)

// Poller owns the periodic background work of the server: refreshing the
// shared case board and cleaning up expired locks and sessions.
// Start and Stop bound its lifetime; Stop waits for the loop to exit.
type Poller struct {
	database *gorm.DB
	board    *services.CaseBoard

	refreshEvery time.Duration
	sweepEvery   time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewPoller builds a poller from the configured intervals.
func NewPoller(database *gorm.DB, board *services.CaseBoard, cfg *config.Config) *Poller {
	return &Poller{
		database:     database,
		board:        board,
		refreshEvery: cfg.BoardRefreshInterval,
		sweepEvery:   cfg.LockSweepInterval,
	}
}

// Start launches the polling loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go p.run()
	log.Printf("[JOB] Poller started (refresh %s, sweep %s)", p.refreshEvery, p.sweepEvery)
}

// Stop terminates the polling loop and waits for it to finish.
// Safe to call more than once.
func (p *Poller) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop = nil
	log.Println("[JOB] Poller stopped")
}

func (p *Poller) run() {
	defer close(p.done)

	refresh := time.NewTicker(p.refreshEvery)
	defer refresh.Stop()
	sweep := time.NewTicker(p.sweepEvery)
	defer sweep.Stop()

	for {
		select {
		case <-refresh.C:
			p.board.RefreshSilent(p.database)
		case <-sweep.C:
			p.runSweep()
		case <-p.stop:
			return
		}
	}
}

func (p *Poller) runSweep() {
	if err := services.SweepExpiredLocks(p.database); err != nil {
		log.Printf("[JOB] Error sweeping expired locks: %v", err)
	}

	if err := services.CleanupExpiredSessions(p.database); err != nil {
		log.Printf("[JOB] Error cleaning up expired sessions: %v", err)
	}
}
