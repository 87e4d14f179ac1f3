// Package ui serves the artifacts of a completed run: the machine-readable
// summary, the three figure payloads, and the rendered report.
package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gin-gonic/gin"

	"entropynull/internal"
	"entropynull/internal/report"
)

// Server exposes a read-only HTTP view over an artifacts directory.
type Server struct {
	artifactsDir string
	router       *gin.Engine
	log          *internal.Logger
}

var figureID = regexp.MustCompile(`^fig[0-9][a-z0-9_]*$`)

// NewServer creates the report server for an artifacts directory.
func NewServer(artifactsDir string, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{artifactsDir: artifactsDir, router: router, log: log}

	router.GET("/healthz", s.handleHealth)
	router.GET("/api/summary", s.handleSummary)
	router.GET("/api/figures/:id", s.handleFigure)
	router.GET("/report", s.handleReport)

	return s
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	s.log.Info("report server listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSummary(c *gin.Context) {
	s.serveJSONFile(c, "summary.json")
}

// handleFigure serves one figure payload by artifact stem, e.g.
// /api/figures/fig1_eci_histograms.
func (s *Server) handleFigure(c *gin.Context) {
	id := c.Param("id")
	if !figureID.MatchString(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid figure id"})
		return
	}
	s.serveJSONFile(c, id+".json")
}

func (s *Server) handleReport(c *gin.Context) {
	raw, err := os.ReadFile(filepath.Join(s.artifactsDir, report.FileName))
	if err != nil {
		c.String(http.StatusNotFound, "report not found; run reproduce first")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.ToHTML(string(raw)))
}

func (s *Server) serveJSONFile(c *gin.Context, name string) {
	path := filepath.Join(s.artifactsDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": name + " not found; run reproduce first"})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
