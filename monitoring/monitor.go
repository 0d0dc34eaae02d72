// Package monitoring turns a running co-simulation into a web server that
// can inspect and pause it.
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
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cosim/cosim"
	"github.com/sarchlab/cosim/idgen"
	"github.com/sarchlab/cosim/monitoring/web"
)

// Simulation is what the monitor controls.
type Simulation interface {
	Pause()
	Continue()
	Status() cosim.Status
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	simulation Simulation
	state      any
	portNumber int
	logger     logrus.FieldLogger
	ids        idgen.Generator

	profileDuration time.Duration

	server   *http.Server
	listener net.Listener

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		logger:          logrus.StandardLogger(),
		ids:             idgen.NewParallel(),
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor. Zero or a privileged
// port picks a random one.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.WithField("port", portNumber).
			Warn("Port not allowed for the monitoring server, using a random one")

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets where the monitor reports.
func (m *Monitor) WithLogger(logger logrus.FieldLogger) *Monitor {
	m.logger = logger
	return m
}

// RegisterSimulation registers the simulation to control.
func (m *Monitor) RegisterSimulation(s Simulation) {
	m.simulation = s
}

// RegisterState registers the object that /api/state serializes.
func (m *Monitor) RegisterState(root any) {
	m.state = root
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.ids.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler that serves the API and the web page.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/horizon", m.horizon)
	r.HandleFunc("/api/queue", m.queue)
	r.HandleFunc("/api/state", m.serializeState)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the address of
// the web page.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitoring: listening: %w", err)
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.logger.WithField("url", url).Info("Monitoring simulation")

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.WithError(err).Error("Monitoring server stopped")
		}
	}()

	return url, nil
}

// OpenBrowser opens the web page of a started server.
func (m *Monitor) OpenBrowser(url string) error {
	browser.Stdout = os.Stderr
	return browser.OpenURL(url)
}

// StopServer shuts the server down.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.simulation.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	m.simulation.Continue()
	w.WriteHeader(http.StatusOK)
}

type nowRsp struct {
	Now        float64 `json:"now"`
	Continuous float64 `json:"continuous"`
	Paused     bool    `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	status := m.simulation.Status()

	m.writeJSON(w, nowRsp{
		Now:        float64(status.Time),
		Continuous: float64(status.ContinuousTime),
		Paused:     status.Paused,
	})
}

type horizonRsp struct {
	Horizon float64 `json:"horizon"`
}

func (m *Monitor) horizon(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, horizonRsp{
		Horizon: float64(m.simulation.Status().Horizon),
	})
}

type pendingEventRsp struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	Time float64 `json:"time"`
}

func (m *Monitor) queue(w http.ResponseWriter, _ *http.Request) {
	pending := m.simulation.Status().Pending

	rsp := make([]pendingEventRsp, 0, len(pending))
	for _, evt := range pending {
		rsp = append(rsp, pendingEventRsp{
			ID:   evt.ID,
			Kind: cosim.TaskKind(evt.Event),
			Time: float64(evt.Time),
		})
	}

	m.writeJSON(w, rsp)
}

// serializeState writes the registered state object. The field query
// parameter, e.g. "clock.step", narrows the output to a nested field.
func (m *Monitor) serializeState(w http.ResponseWriter, r *http.Request) {
	if m.state == nil {
		http.Error(w, "no state registered", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.state)
	serializer.SetMaxDepth(1)

	if field := r.URL.Query().Get("field"); field != "" {
		err := serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := serializer.Serialize(w); err != nil {
		m.logger.WithError(err).Error("Failed to serialize state")
	}
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	m.writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.fail(w, err)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		m.fail(w, err)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, err)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		m.logger.WithError(err).Debug("Monitoring client went away")
	}
}

func (m *Monitor) fail(w http.ResponseWriter, err error) {
	m.logger.WithError(err).Error("Monitoring request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
