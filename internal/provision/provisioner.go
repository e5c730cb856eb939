package provision

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/smartconfig/internal/protocol"
)

// inboundBuffer bounds the datagrams queued between the reader and the loop.
const inboundBuffer = 16

// maxDatagram is the largest inbound datagram read from the socket.
const maxDatagram = 1500

// Provisioner runs provisioning attempts.
type Provisioner struct {
	config Config
	logger *zap.Logger

	// Clock drives timing. Default: SystemClock
	Clock Clock

	// Transport opens the socket. Default: UDPTransport
	Transport Transport

	// Observer, if set, receives progress events
	Observer Observer
}

// NewProvisioner creates a Provisioner with the given configuration.
func NewProvisioner(config Config, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{
		config:    config,
		logger:    logger,
		Clock:     SystemClock{},
		Transport: UDPTransport{},
	}
}

// Config returns the attempt configuration
func (p *Provisioner) Config() Config {
	return p.config
}

// Provision sends cred until the device acknowledges it, the send window
// elapses, a send fails, or ctx ends.
//
// Errors:
//   - encoding errors (protocol.ErrIndexOutOfRange, protocol.ErrMalformedAddress),
//     returned before the socket is opened
//   - bind errors
//   - *SendError, with a Result in StateErrored
//   - *ReceiveError when the acknowledgment socket fails, with a Result in
//     StateErrored
//   - ctx.Err(), with a Result in StateCanceled
//
// A timeout returns a Result with Acked false and a nil error.
func (p *Provisioner) Provision(ctx context.Context, cred protocol.Credential) (*Result, error) {
	if err := p.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provisioning config: %w", err)
	}

	codes, err := protocol.EncodeDatum(cred)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}

	p.logger.Info("encoded credential",
		zap.Int("ssid_len", len(cred.SSID)),
		zap.Int("password_len", len(cred.Password)),
		zap.String("bssid", cred.BSSID),
		zap.String("ip", cred.IP),
		zap.Bool("hidden_ssid", cred.HiddenSSID),
		zap.Int("codes", len(codes)),
	)

	conn, err := p.Transport.Listen(p.config.ListenPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open acknowledgment socket: %w", err)
	}

	a := &attempt{
		config:    p.config,
		logger:    p.logger,
		clock:     p.Clock,
		observer:  p.Observer,
		conn:      conn,
		marker:    cred.AckMarker(),
		guide:     protocol.MaterializeAll(protocol.GuideCodes),
		data:      protocol.MaterializeAll(codes),
		inbound:   make(chan datagram, inboundBuffer),
		readErr:   make(chan error, 1),
		closing:   make(chan struct{}),
		readDone:  make(chan struct{}),
		result:    &Result{State: StateIdle, StateName: StateIdle.String()},
		startTime: p.Clock.Now(),
	}

	go a.readLoop()
	defer a.close()

	return a.run(ctx)
}

type datagram struct {
	data []byte
	from net.Addr
}

// attempt is the state of one Provision call. Only the sending goroutine
// touches it, apart from the channels shared with readLoop.
type attempt struct {
	config   Config
	logger   *zap.Logger
	clock    Clock
	observer Observer
	conn     PacketConn
	marker   int

	guide [][]byte
	data  [][]byte

	targets targetRotation
	result  *Result

	inbound   chan datagram
	readErr   chan error
	closing   chan struct{}
	readDone  chan struct{}
	closeOnce sync.Once

	startTime time.Time
}

func (a *attempt) run(ctx context.Context) (*Result, error) {
	cycle := a.config.CycleTimeout()
	cycleStart := a.startTime
	lastCycle := a.startTime.Add(-cycle)
	windows := len(a.data) / WindowSize
	window := 0

	for !a.result.Acked {
		if cycleStart.Sub(lastCycle) >= cycle {
			a.setState(StateGuidePhase)
			for a.clock.Now().Sub(cycleStart) < a.config.GuideTimeout && !a.result.Acked {
				if err := a.sendGroup(ctx, a.guide, a.config.GuideInterval); err != nil {
					return a.fail(err)
				}
				if a.windowExpired() {
					break
				}
			}
			lastCycle = cycleStart
		} else {
			a.setState(StateDataPhase)
			start := window * WindowSize
			if err := a.sendGroup(ctx, a.data[start:start+WindowSize], a.config.DataInterval); err != nil {
				return a.fail(err)
			}
			window = (window + 1) % windows
		}

		cycleStart = a.clock.Now()
		if a.windowExpired() {
			break
		}
	}

	if a.result.Acked {
		a.setState(StateAcked)
		a.logger.Info("device acknowledged",
			zap.String("peer", a.result.PeerAddress),
			zap.String("bssid", a.result.BSSID),
			zap.String("ip", a.result.IP),
			zap.Duration("elapsed", a.result.Elapsed),
		)
		return a.result, nil
	}

	a.setState(StateTimedOut)
	a.logger.Info("send window elapsed without acknowledgment",
		zap.Duration("elapsed", a.result.Elapsed),
		zap.Int("packets_sent", a.result.PacketsSent),
	)
	return a.result, nil
}

// sendGroup sends packets to the next destination, sleeping interval after
// each one and checking for acknowledgments after every sleep.
func (a *attempt) sendGroup(ctx context.Context, packets [][]byte, interval time.Duration) error {
	addr := &net.UDPAddr{IP: a.targets.next(), Port: a.config.TargetPort}

	for _, packet := range packets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := a.conn.WriteTo(packet, addr); err != nil {
			return &SendError{Target: addr.String(), Length: len(packet), Err: err}
		}
		a.result.PacketsSent++

		a.clock.Sleep(interval)
		if err := a.drainInbound(); err != nil {
			return err
		}
	}

	a.logger.Debug("sent packet group",
		zap.String("state", a.result.State.String()),
		zap.String("target", addr.String()),
		zap.Int("packets", len(packets)),
	)
	a.emit(addr.String())
	return nil
}

// drainInbound handles every datagram queued by readLoop without blocking,
// then reports a read failure unless the device has already acknowledged.
func (a *attempt) drainInbound() error {
	for drained := false; !drained; {
		select {
		case dg := <-a.inbound:
			a.handleDatagram(dg)
		default:
			drained = true
		}
	}

	select {
	case err := <-a.readErr:
		if a.result.Acked {
			return nil
		}
		return &ReceiveError{Err: err}
	default:
		return nil
	}
}

func (a *attempt) handleDatagram(dg datagram) {
	if a.result.Acked {
		return
	}

	ack, err := protocol.ParseAck(dg.data, a.marker)
	if err != nil {
		a.logger.Debug("discarded datagram",
			zap.Stringer("from", dg.from),
			zap.Binary("data", dg.data),
			zap.String("reason", err.Error()),
		)
		return
	}

	a.result.Acked = true
	a.result.BSSID = ack.BSSIDHex()
	a.result.IP = ack.IPString()
	a.result.Elapsed = a.clock.Now().Sub(a.startTime)
	if udpAddr, ok := dg.from.(*net.UDPAddr); ok {
		a.result.PeerAddr = udpAddr
		a.result.PeerAddress = udpAddr.IP.String()
		a.result.PeerPort = udpAddr.Port
	} else if dg.from != nil {
		a.result.PeerAddress = dg.from.String()
	}
}

func (a *attempt) windowExpired() bool {
	return a.clock.Now().Sub(a.startTime) > a.config.SendWindow
}

func (a *attempt) fail(err error) (*Result, error) {
	a.close()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.setState(StateCanceled)
		a.logger.Info("provisioning canceled", zap.Error(err))
		return a.result, err
	}

	a.setState(StateErrored)
	a.logger.Error("provisioning failed", zap.Error(err))
	return a.result, err
}

func (a *attempt) setState(s State) {
	if a.result.State == s {
		return
	}
	prev := a.result.State
	a.result.State = s
	a.result.StateName = s.String()
	if s.Terminal() && !a.result.Acked {
		a.result.Elapsed = a.clock.Now().Sub(a.startTime)
	}

	a.logger.Debug("state transition",
		zap.String("from", prev.String()),
		zap.String("to", s.String()),
	)
	a.emit("")
}

func (a *attempt) emit(target string) {
	if a.observer == nil {
		return
	}
	a.observer(Event{
		State:       a.result.State,
		Elapsed:     a.clock.Now().Sub(a.startTime),
		Budget:      a.config.SendWindow,
		PacketsSent: a.result.PacketsSent,
		Target:      target,
	})
}

// readLoop forwards inbound datagrams until the socket is closed or a read
// fails.
func (a *attempt) readLoop() {
	defer close(a.readDone)

	buf := make([]byte, maxDatagram)
	for {
		n, from, err := a.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-a.closing:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Reading stops at the first failure
			a.readErr <- err
			return
		}

		dg := datagram{data: append([]byte(nil), buf[:n]...), from: from}
		select {
		case a.inbound <- dg:
		case <-a.closing:
			return
		}
	}
}

// close releases the socket exactly once and waits for readLoop to exit.
func (a *attempt) close() {
	a.closeOnce.Do(func() {
		close(a.closing)
		if err := a.conn.Close(); err != nil {
			a.logger.Debug("error closing socket", zap.Error(err))
		}
		<-a.readDone
	})
}
