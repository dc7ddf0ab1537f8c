// Package netprobe answers "is the internet usable right now" without blocking.
//
// Connectivity requires two things: a local interface that is up, not loopback and
// holds a routable address, and a recent successful reachability check against a
// known endpoint. The check runs in the background; IsConnected only reads state.
package netprobe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/vietddude/headlines/internal/metrics"
)

// Mode selects how the probe answers.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const (
	DefaultCheckAddress  = "newsapi.org:443"
	DefaultCheckInterval = 30 * time.Second
	DefaultDialTimeout   = 3 * time.Second
)

// Config holds network probe settings.
type Config struct {
	Mode          Mode          `yaml:"mode"`
	CheckAddress  string        `yaml:"check_address"`
	CheckInterval time.Duration `yaml:"check_interval"`
	DialTimeout   time.Duration `yaml:"dial_timeout"`
}

// Interface is the subset of a network interface the probe inspects.
type Interface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// InterfaceLister returns the host's interfaces.
type InterfaceLister func() ([]Interface, error)

// DialFunc opens a connection; it matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Probe tracks connectivity. It is safe for concurrent use.
type Probe struct {
	cfg        Config
	interfaces InterfaceLister
	dial       DialFunc
	validated  atomic.Bool
	lastCheck  atomic.Int64
	log        *slog.Logger
}

// Option customizes a Probe.
type Option func(*Probe)

// WithInterfaceLister replaces the system interface lister.
func WithInterfaceLister(l InterfaceLister) Option {
	return func(p *Probe) { p.interfaces = l }
}

// WithDialer replaces the TCP dialer used for validation.
func WithDialer(d DialFunc) Option {
	return func(p *Probe) { p.dial = d }
}

// New creates a probe. In auto mode it reports offline until the first
// successful Validate.
func New(cfg Config, opts ...Option) *Probe {
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if cfg.CheckAddress == "" {
		cfg.CheckAddress = DefaultCheckAddress
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}

	p := &Probe{
		cfg:        cfg,
		interfaces: systemInterfaces,
		dial:       (&net.Dialer{}).DialContext,
		log:        slog.Default().With("component", "netprobe"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the configured mode.
func (p *Probe) Mode() Mode {
	return p.cfg.Mode
}

// IsConnected reports whether a routable interface exists and the last
// validation succeeded. It performs no network I/O.
func (p *Probe) IsConnected() bool {
	var connected bool
	switch p.cfg.Mode {
	case ModeOnline:
		connected = true
	case ModeOffline:
		connected = false
	default:
		connected = p.validated.Load() && p.hasRoutableInterface()
	}

	if connected {
		metrics.NetworkConnected.Set(1)
	} else {
		metrics.NetworkConnected.Set(0)
	}
	return connected
}

// LastCheck returns when Validate last ran, or the zero time.
func (p *Probe) LastCheck() time.Time {
	ns := p.lastCheck.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Validate dials the check address and records the result.
func (p *Probe) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.DialTimeout)
	defer cancel()

	defer func() { p.lastCheck.Store(time.Now().UnixNano()) }()

	conn, err := p.dial(ctx, "tcp", p.cfg.CheckAddress)
	if err != nil {
		if p.validated.Swap(false) {
			p.log.Warn("Connectivity lost", "address", p.cfg.CheckAddress, "error", err)
		}
		return fmt.Errorf("reachability check failed: %w", err)
	}
	_ = conn.Close()

	if !p.validated.Swap(true) {
		p.log.Info("Connectivity validated", "address", p.cfg.CheckAddress)
	}
	return nil
}

// Run validates immediately and then on every check interval until ctx is done.
// It returns at once in fixed modes.
func (p *Probe) Run(ctx context.Context) {
	if p.cfg.Mode != ModeAuto {
		return
	}

	ticker := time.NewTicker(p.cfg.CheckInterval)
	defer ticker.Stop()

	_ = p.Validate(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Validate(ctx)
		}
	}
}

func (p *Probe) hasRoutableInterface() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		p.log.Debug("Failed to list interfaces", "error", err)
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range iface.Addrs {
			if isRoutable(addr) {
				return true
			}
		}
	}
	return false
}

func isRoutable(addr net.Addr) bool {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return false
	}
	return ip.IsGlobalUnicast() && !ip.IsLinkLocalUnicast()
}

func systemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{Name: iface.Name, Flags: iface.Flags, Addrs: addrs})
	}
	return out, nil
}
