package media

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

const (
	// DefaultConnectionCheckInterval is the auto-check cadence.
	DefaultConnectionCheckInterval = 180 * time.Second

	// connectionRefreshTimeout ends a refresh whose response never arrived.
	connectionRefreshTimeout = 10 * time.Second
)

// ConnectionState is the phone-reported state of one remote service.
type ConnectionState int

const (
	ConnectionUnknown ConnectionState = iota
	ConnectionConnected
	ConnectionDisconnected
	ConnectionError
	ConnectionChecking
)

func (c ConnectionState) String() string {
	switch c {
	case ConnectionConnected:
		return "CONNECTED"
	case ConnectionDisconnected:
		return "DISCONNECTED"
	case ConnectionError:
		return "ERROR"
	case ConnectionChecking:
		return "CHECKING"
	default:
		return "UNKNOWN"
	}
}

// ParseConnectionState parses a state label case-insensitively.
func ParseConnectionState(s string) ConnectionState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONNECTED", "OK":
		return ConnectionConnected
	case "DISCONNECTED":
		return ConnectionDisconnected
	case "ERROR":
		return ConnectionError
	case "CHECKING":
		return ConnectionChecking
	default:
		return ConnectionUnknown
	}
}

// ServiceType names a remote service whose connection the phone tracks.
type ServiceType string

const (
	ServiceSpotify ServiceType = "spotify"
)

// KnownServices lists the services with a dedicated broker key.
var KnownServices = []ServiceType{ServiceSpotify}

func (t ServiceType) key() string {
	switch t {
	case ServiceSpotify:
		return broker.KeyConnectionsSpotify
	default:
		return "connections:" + string(t)
	}
}

// ServiceStatus is the last report for one service.
type ServiceStatus struct {
	Service      ServiceType
	State        ConnectionState
	ErrorMessage string
	LastChecked  time.Time
	LastUpdated  time.Time
}

// ConnectionsState is the status of every known service.
type ConnectionsState struct {
	Services          []ServiceStatus
	RefreshInProgress bool
	Timestamp         time.Time
}

// Status returns the entry for svc, or an UNKNOWN entry.
func (c ConnectionsState) Status(svc ServiceType) ServiceStatus {
	for _, st := range c.Services {
		if st.Service == svc {
			return st
		}
	}
	return ServiceStatus{Service: svc}
}

func msTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ParseServiceStatus accepts either a bare state label or a JSON record
// {state, error, lastChecked, lastUpdated}.
func ParseServiceStatus(svc ServiceType, data []byte) ServiceStatus {
	st := ServiceStatus{Service: svc}
	o, ok := decodeObject(data)
	if !ok {
		st.State = ParseConnectionState(string(data))
		return st
	}
	st.State = ParseConnectionState(o.str("s", "state", "status"))
	st.ErrorMessage = o.str("e", "error", "errorMessage")
	if ms, ok := o.int("lc", "lastChecked"); ok {
		st.LastChecked = msTime(ms)
	}
	if ms, ok := o.int("lu", "lastUpdated"); ok {
		st.LastUpdated = msTime(ms)
	}
	return st
}

// Connections reads the per-service status. RefreshInProgress stays set
// from CheckConnection until a newer response timestamp is published or
// the refresh times out.
func (s *Service) Connections(ctx context.Context) (ConnectionsState, bool) {
	keys := make([]string, 0, len(KnownServices)+1)
	for _, svc := range KnownServices {
		keys = append(keys, svc.key())
	}
	keys = append(keys, broker.KeyConnectionsTimestamp)

	vals, err := s.store.MGet(ctx, keys...)
	if err != nil {
		return ConnectionsState{}, false
	}

	var cs ConnectionsState
	if ts, ok := vals.Int(broker.KeyConnectionsTimestamp); ok {
		cs.Timestamp = msTime(int64(ts))
	}
	for _, svc := range KnownServices {
		raw := vals[svc.key()]
		if raw == "" {
			cs.Services = append(cs.Services, ServiceStatus{Service: svc})
			continue
		}
		cs.Services = append(cs.Services, ParseServiceStatus(svc, []byte(raw)))
	}

	if !s.conn.refreshSince.IsZero() {
		now := s.now()
		if cs.Timestamp.After(s.conn.refreshSince) ||
			now.Sub(s.conn.refreshSince) > connectionRefreshTimeout {
			s.conn.refreshSince = time.Time{}
		}
	}
	cs.RefreshInProgress = !s.conn.refreshSince.IsZero()
	if cs.RefreshInProgress {
		for i := range cs.Services {
			cs.Services[i].State = ConnectionChecking
		}
	}
	return cs, true
}

// ConnectionResponse returns the raw response of the last check, if any.
func (s *Service) ConnectionResponse(ctx context.Context) (string, bool) {
	raw, ok := s.getString(ctx, broker.KeyConnectionsResponse)
	return raw, ok && raw != ""
}

// CheckConnection asks the phone to verify one service.
func (s *Service) CheckConnection(ctx context.Context, svc ServiceType) bool {
	if !s.Send(ctx, CheckConnection(string(svc))) {
		return false
	}
	s.startRefresh()
	return true
}

// CheckAllConnections asks the phone to verify every service.
func (s *Service) CheckAllConnections(ctx context.Context) bool {
	if !s.Send(ctx, Cmd(ActionCheckAllConnections)) {
		return false
	}
	s.startRefresh()
	return true
}

func (s *Service) startRefresh() {
	now := s.now()
	s.conn.refreshSince = now
	s.conn.lastCheck = now
}

// AutoCheckConnections issues a check-all when interval has elapsed since
// the last check. It returns true when a check was sent.
func (s *Service) AutoCheckConnections(ctx context.Context, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultConnectionCheckInterval
	}
	if !s.conn.lastCheck.IsZero() && s.now().Sub(s.conn.lastCheck) < interval {
		return false
	}
	if !s.CheckAllConnections(ctx) {
		// Back off a full interval on failure.
		s.conn.lastCheck = s.now()
		s.log.Debug("auto connection check failed")
		return false
	}
	s.log.Debug("auto connection check", zap.Duration("interval", interval))
	return true
}

type connectionTracker struct {
	refreshSince time.Time
	lastCheck    time.Time
}
