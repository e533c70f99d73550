// Package monitoring turns a running simulation into a small web server that
// reports its progress.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor keeps a snapshot of a simulation and serves it over HTTP. The
// simulation updates the snapshot through the hook interface; HTTP handlers
// only read it.
type Monitor struct {
	portNumber      int
	profileDuration time.Duration
	logger          zerolog.Logger

	lock     sync.Mutex
	progress Progress
	geometry *geometry

	listener net.Listener
	server   *http.Server
}

type geometry struct {
	CacheByteSize uint64
	BlockByteSize uint64
	NumSets       int
	NumWays       int
	TagBits       int
	IndexBits     int
	OffsetBits    int
	Policy        string
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		logger:          zerolog.Nop(),
		progress: Progress{
			ID:        xid.New().String(),
			Name:      "simulation",
			StartTime: time.Now(),
		},
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn().Int("port", portNumber).
			Msg("port not allowed for the monitoring server, using a random port")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger zerolog.Logger) *Monitor {
	m.logger = logger
	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterSimulator attaches the monitor to a simulator.
func (m *Monitor) RegisterSimulator(name string, s *simulation.Simulator) {
	m.lock.Lock()
	m.progress.Name = name
	m.geometry = newGeometry(s.Config(), s.Policy())
	m.lock.Unlock()

	s.AcceptHook(m)
}

func newGeometry(c cache.Config, p cache.ReplacementPolicy) *geometry {
	return &geometry{
		CacheByteSize: c.CacheByteSize,
		BlockByteSize: c.BlockByteSize,
		NumSets:       c.NumSets,
		NumWays:       c.NumWays,
		TagBits:       c.TagBits(),
		IndexBits:     c.IndexBits(),
		OffsetBits:    c.OffsetBits(),
		Policy:        p.Name(),
	}
}

// Func updates the snapshot.
func (m *Monitor) Func(ctx simulation.HookCtx) {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch ctx.Pos {
	case simulation.HookPosAccess:
		r, ok := ctx.Detail.(simulation.AccessResult)
		if ok && ctx.Domain != nil {
			m.progress.record(r, ctx.Domain.Counters())
		}
	case simulation.HookPosRunEnd:
		if c, ok := ctx.Detail.(simulation.Counters); ok {
			m.progress.finish(c)
		}
	}
}

// Progress returns the current snapshot.
func (m *Monitor) Progress() Progress {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.progress.snapshot(time.Now())
}

// Handler returns the HTTP routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/config", m.showConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() error {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return fmt.Errorf("monitoring: %w", err)
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.URL())

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("monitoring server stopped")
		}
	}()

	return nil
}

// URL returns the address of the server, or an empty string before
// StartServer.
func (m *Monitor) URL() string {
	if m.listener == nil {
		return ""
	}

	return fmt.Sprintf("http://localhost:%d",
		m.listener.Addr().(*net.TCPAddr).Port)
}

// OpenInBrowser opens the progress page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.listener == nil {
		return errors.New("monitoring: server is not started")
	}

	return browser.OpenURL(m.URL() + "/api/progress")
}

// Stop shuts the server down.
func (m *Monitor) Stop() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) listProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.Progress())
}

func (m *Monitor) showConfig(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	g := m.geometry
	m.lock.Unlock()

	if g == nil {
		http.Error(w, "no simulator registered", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(g)
	serializer.SetMaxDepth(1)

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
