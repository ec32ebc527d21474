// Package server exposes the motion-control core over HTTP: upload a
// G-code job, compile it, run it against a planner, and watch its progress
// over a websocket. Grounded in
// original_source/crates/scherzo/src/server.rs's axum job-upload/status
// router, ported to gin-gonic/gin (the web framework every Go repo in the
// pack that serves HTTP reaches for) with github.com/google/uuid assigning
// job IDs and github.com/gorilla/websocket pushing live status, both
// patterns taken from o9nn-echo.go's server/hgql/server.go.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"scherzo/codegen"
	"scherzo/config"
	"scherzo/gcode"
	"scherzo/planner"
	"scherzo/stepcompress"
)

// Server wires a gin router to a job store and a planner factory. S is the
// command sink type every job's planner pushes steps into (an mcusim.MCU
// for demos/tests, a real wire encoder in production).
type Server[S stepcompress.CommandSink] struct {
	Engine *gin.Engine

	cfg            *config.MachineConfig
	extruderName   string
	plannerFactory func() (*planner.Planner[S], error)
	store          *Store
	upgrader       websocket.Upgrader

	// tickInterval is the simulated print-time step between progress
	// updates while a job runs; smaller values report progress more often
	// at the cost of more Planner.Tick calls.
	tickInterval float64
}

// New builds a Server. plannerFactory returns a fresh planner (with its own
// command sinks) for each job run, since every job starts from position
// zero. extruderName names the configured extruder stepper, or "" if the
// machine has none.
func New[S stepcompress.CommandSink](cfg *config.MachineConfig, extruderName string, plannerFactory func() (*planner.Planner[S], error)) *Server[S] {
	srv := &Server[S]{
		cfg:            cfg,
		extruderName:   extruderName,
		plannerFactory: plannerFactory,
		store:          NewStore(),
		upgrader:       websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		tickInterval:   0.25,
	}

	r := gin.Default()
	r.GET("/health", srv.handleHealth)
	r.POST("/jobs", srv.handleUpload)
	r.GET("/jobs/:id", srv.handleGet)
	r.GET("/jobs/:id/preview", srv.handlePreview)
	r.GET("/jobs/:id/ws", srv.handleWebSocket)
	srv.Engine = r
	return srv
}

func (s *Server[S]) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload accepts a raw G-code body, compiles it, registers the job,
// and starts it running in the background — the "POSTed as G-code text,
// compiled, and executed against the core" flow SPEC_FULL.md describes.
func (s *Server[S]) handleUpload(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := c.Query("name")
	if name == "" {
		name = "job"
	}

	stmts, err := gcode.Parse(string(body))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	program := codegen.Compile(stmts, s.cfg)
	job := s.store.Add(name, string(body), program)

	go s.runJob(job)

	c.JSON(http.StatusCreated, gin.H{
		"job_id": job.ID,
		"url":    "/jobs/" + job.ID.String(),
	})
}

func (s *Server[S]) handleGet(c *gin.Context) {
	job, ok := s.lookupJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, jobStatusPayload(job))
}

// handlePreview reports how many operations a job compiled to, the way the
// original server's PreviewResponse summarizes a job without running it.
func (s *Server[S]) handlePreview(c *gin.Context) {
	job, ok := s.lookupJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"commands_count": len(job.program.Ops),
		"summary":        job.Name,
	})
}

// handleWebSocket upgrades the connection and pushes the job's status
// snapshot on an interval until it reaches a terminal state.
func (s *Server[S]) handleWebSocket(c *gin.Context) {
	job, ok := s.lookupJob(c)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		payload := jobStatusPayload(job)
		if err := conn.WriteJSON(payload); err != nil {
			return
		}
		status, _, _ := job.Snapshot()
		if status == StatusCompleted || status == StatusFailed {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (s *Server[S]) lookupJob(c *gin.Context) (*Job, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed job id"})
		return nil, false
	}
	job, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return nil, false
	}
	return job, true
}

func jobStatusPayload(job *Job) gin.H {
	status, progress, errMsg := job.Snapshot()
	payload := gin.H{
		"job_id":   job.ID,
		"name":     job.Name,
		"status":   status,
		"progress": progress,
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}
	return payload
}

// runJob schedules a job's compiled program against a fresh planner and
// ticks the scheduler to completion, updating the job's progress as it
// goes. handleUpload starts it in its own goroutine as soon as the job is
// uploaded (no job queue): the original server's Enqueued state has no
// counterpart here since there is nothing to wait behind.
func (s *Server[S]) runJob(job *Job) {
	job.setStatus(StatusRunning)

	pl, err := s.plannerFactory()
	if err != nil {
		job.fail(err)
		return
	}

	end, err := codegen.Run(job.program, pl, s.cfg, s.extruderName, 0.0)
	if err != nil {
		job.fail(err)
		return
	}

	if end <= 0 {
		job.setProgress(1)
		job.setStatus(StatusCompleted)
		return
	}

	for t := s.tickInterval; ; t += s.tickInterval {
		flushTime := t
		if flushTime > end {
			flushTime = end
		}
		if err := pl.Tick(flushTime, 0); err != nil {
			job.fail(err)
			return
		}
		job.setProgress(flushTime / end)
		if flushTime >= end {
			break
		}
	}

	job.setStatus(StatusCompleted)
}
