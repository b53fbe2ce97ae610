package bot

import (
	"context"
	"math/rand/v2"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"

	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/util/errs"
	"go.minekube.com/stampede/pkg/util/netutil"
)

var errShutdown = errs.NewSilentErr("swarm stopped")

const (
	eventQueueSize  = 1024
	initialReadSize = 4096
	maxReadSize     = 1 << 21
)

// ioEvent is posted by dial and read goroutines to the scheduler.
type ioEvent struct {
	session *Session
	conn    net.Conn // set on connect completion
	connect bool
	data    []byte
	err     error
}

// scheduler runs the bots of one shard.
//
// All session state is only touched by the goroutine running the
// scheduler. Dialing and reading happen on helper goroutines that
// hand their results over through the events channel.
type scheduler struct {
	shard      int
	firstID    int
	count      int
	cfg        *config.Config
	target     *netutil.Target
	protocol   proto.Protocol
	dispatcher *Dispatcher
	stats      *Stats
	event      event.Manager
	dialer     Dialer
	ping       bool
	proxySrc   *netip.Prefix
	log        logr.Logger

	admission *Admission
	behavior  *behavior
	sessions  []*Session
	tick      uint64

	events chan ioEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

type schedulerOptions struct {
	shard, firstID, count int
	perTick               float64
}

func (sw *Swarm) newScheduler(o schedulerOptions) *scheduler {
	cfg := sw.cfg
	seed := uint64(time.Now().UnixNano())
	return &scheduler{
		shard:      o.shard,
		firstID:    o.firstID,
		count:      o.count,
		cfg:        cfg,
		target:     sw.target,
		protocol:   sw.dispatcher.Protocol(),
		dispatcher: sw.dispatcher,
		stats:      sw.stats,
		event:      sw.event,
		dialer:     sw.dialer,
		ping:       sw.ping,
		proxySrc:   sw.proxySrc,
		log:        sw.log.WithName("shard").WithValues("shard", o.shard),
		admission:  NewAdmission(o.count, o.perTick, cfg.Admission.MaxConnectsPerSecond),
		behavior:   newBehavior(cfg.Behavior, rand.New(rand.NewPCG(seed, uint64(o.shard)))),
		events:     make(chan ioEvent, eventQueueSize),
		done:       make(chan struct{}),
	}
}

// run runs ticks until all bots were admitted and left, or ctx is canceled.
func (sc *scheduler) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel() // abort pending dials
		sc.shutdown()
	}()

	sc.log.V(1).Info("starting shard", "bots", sc.count, "firstID", sc.firstID)
	timer := time.NewTimer(sc.cfg.Tick)
	defer timer.Stop()
	for {
		start := time.Now()
		deadline := start.Add(sc.cfg.Tick)

		sc.admit(ctx, start)
		if !sc.poll(ctx, timer, deadline) {
			return nil
		}
		sc.sweep()

		if !sleepUntil(ctx, timer, deadline) {
			return nil
		}
		sc.behave(time.Now())
		sc.sweep()

		sc.tick++
		if sc.admission.Done() && len(sc.sessions) == 0 {
			sc.log.V(1).Info("shard finished", "ticks", sc.tick)
			return nil
		}
	}
}

// admit starts the sessions admitted in this tick.
func (sc *scheduler) admit(ctx context.Context, now time.Time) {
	n := sc.admission.Tick(now)
	first := sc.firstID + sc.admission.Admitted() - n
	for i := range n {
		s := newSession(sc, first+i, now)
		sc.sessions = append(sc.sessions, s)
		sc.stats.Admitted.Inc()
		sc.stats.Active.Inc()
		sc.wg.Add(1)
		go sc.dial(ctx, s)
	}
}

// poll waits for the first event until deadline and then handles
// all events that are already queued. It returns false if ctx is done.
func (sc *scheduler) poll(ctx context.Context, timer *time.Timer, deadline time.Time) bool {
	resetTimer(timer, time.Until(deadline))
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case ev := <-sc.events:
		sc.handle(ev)
	}
	for range len(sc.events) {
		sc.handle(<-sc.events)
	}
	return true
}

func (sc *scheduler) handle(ev ioEvent) {
	s := ev.session
	if ev.connect {
		sc.connected(s, ev.conn, ev.err)
		return
	}
	if s.disconnected {
		return
	}
	if len(ev.data) != 0 {
		s.receive(ev.data)
		s.flush()
	}
	if ev.err != nil {
		reason := "connection lost"
		if errs.IsConnClosedErr(ev.err) {
			reason = "connection closed"
		}
		s.Disconnect(reason, ev.err)
	}
}

// connected completes the connect of s.
func (sc *scheduler) connected(s *Session, conn net.Conn, err error) {
	if err != nil {
		s.Disconnect("connect failed", err)
		return
	}
	if s.disconnected {
		_ = conn.Close()
		return
	}
	s.conn = conn
	sc.stats.Connected.Inc()
	if sc.ping {
		err = s.startStatus()
	} else {
		err = s.startLogin()
	}
	if err != nil {
		return
	}
	s.flush()
	if s.disconnected {
		return
	}
	sc.wg.Add(1)
	go sc.read(s, conn)
	e := &SessionConnectedEvent{Bot: s.info()}
	if sc.target.Network == "tcp" && conn.LocalAddr() != nil {
		e.LocalHost, e.LocalPort = netutil.HostPort(conn.LocalAddr())
	}
	s.log.V(1).Info("connected", "localHost", e.LocalHost, "localPort", e.LocalPort)
	sc.event.Fire(e)
}

// behave runs the synthetic behavior and stall checks of all sessions.
func (sc *scheduler) behave(now time.Time) {
	stall := sc.cfg.StallTimeout
	for _, s := range sc.sessions {
		if s.disconnected {
			continue
		}
		if stall > 0 && !s.playing && now.Sub(s.admittedAt) > stall {
			s.Disconnect("stalled", errs.NewSilentErr("not in play state after %s", stall))
			continue
		}
		if err := sc.behavior.act(s, sc.tick); err != nil {
			continue
		}
		s.flush()
	}
}

// sweep removes disconnected sessions.
func (sc *scheduler) sweep() {
	kept := sc.sessions[:0]
	for _, s := range sc.sessions {
		if !s.disconnected {
			kept = append(kept, s)
			continue
		}
		sc.remove(s)
	}
	clear(sc.sessions[len(kept):])
	sc.sessions = kept
}

func (sc *scheduler) remove(s *Session) {
	s.close()
	sc.stats.Disconnected.Inc()
	sc.stats.Active.Dec()
	logDisconnect(s)
	sc.event.Fire(&SessionDisconnectedEvent{Bot: s.info(), Reason: s.reason, Err: s.err})
}

func logDisconnect(s *Session) {
	switch {
	case s.err == nil:
		s.log.Info("disconnected", "reason", s.reason)
	case errs.IsSilent(s.err), errs.IsConnClosedErr(s.err):
		s.log.V(1).Info("disconnected", "reason", s.reason, "error", s.err)
	default:
		s.log.Info("disconnected", "reason", s.reason, "error", s.err.Error())
	}
}

// shutdown closes all sessions and waits for helper goroutines.
func (sc *scheduler) shutdown() {
	close(sc.done)
	for _, s := range sc.sessions {
		s.Disconnect("shutdown", errShutdown)
	}
	sc.sweep()
	sc.wg.Wait()
	// connections that were posted but never handled
	for range len(sc.events) {
		if ev := <-sc.events; ev.conn != nil {
			_ = ev.conn.Close()
		}
	}
}

// post hands an event to the scheduler. It returns false
// if the scheduler stopped.
func (sc *scheduler) post(ev ioEvent) bool {
	select {
	case sc.events <- ev:
		return true
	case <-sc.done:
		return false
	}
}

func (sc *scheduler) dial(ctx context.Context, s *Session) {
	defer sc.wg.Done()
	ctx, cancel := context.WithTimeout(ctx, sc.cfg.DialTimeout)
	addr := sc.target.Addr()
	conn, err := sc.dialer.DialContext(ctx, addr.Network(), addr.String())
	cancel()
	if err == nil && sc.proxySrc != nil {
		if err = writeProxyHeader(conn, sourceAddr(*sc.proxySrc, s.ID)); err != nil {
			_ = conn.Close()
			conn = nil
		}
	}
	if !sc.post(ioEvent{session: s, conn: conn, connect: true, err: err}) && conn != nil {
		_ = conn.Close()
	}
}

// read reads from conn until it fails. The read size doubles
// whenever a read fills the whole buffer.
func (sc *scheduler) read(s *Session, conn net.Conn) {
	defer sc.wg.Done()
	size := initialReadSize
	for {
		buf := make([]byte, size)
		n, err := conn.Read(buf)
		if n > 0 {
			if n == size && size < maxReadSize {
				size *= 2
			}
			if !sc.post(ioEvent{session: s, data: buf[:n]}) {
				return
			}
		}
		if err != nil {
			sc.post(ioEvent{session: s, err: err})
			return
		}
	}
}

// sleepUntil blocks until deadline and returns false if ctx is done first.
func sleepUntil(ctx context.Context, timer *time.Timer, deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err() == nil
	}
	resetTimer(timer, d)
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
