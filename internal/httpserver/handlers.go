package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vizstudio/internal/analytics"
	"vizstudio/internal/dataset"
	"vizstudio/internal/query"
	"vizstudio/internal/storage"
)

// datasetSummary is the catalog entry shape handed to clients; rows stay
// server-side.
type datasetSummary struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Metrics       []dataset.Metric `json:"metrics"`
	DefaultMetric string           `json:"defaultMetric"`
	Regions       []string         `json:"regions"`
	Categories    []string         `json:"categories"`
	MinDate       string           `json:"minDate"`
	MaxDate       string           `json:"maxDate"`
	RowCount      int              `json:"rowCount"`
}

func summarize(ds *dataset.Dataset) datasetSummary {
	return datasetSummary{
		ID:            ds.ID,
		Name:          ds.Name,
		Description:   ds.Description,
		Metrics:       ds.Metrics,
		DefaultMetric: ds.DefaultMetric,
		Regions:       ds.Regions,
		Categories:    ds.Categories,
		MinDate:       ds.MinDate,
		MaxDate:       ds.MaxDate,
		RowCount:      len(ds.Rows),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"datasets": len(s.catalog.List()),
	})
}

func (s *Server) handleDatasets(c *gin.Context) {
	list := s.catalog.List()
	summaries := make([]datasetSummary, len(list))
	for i, ds := range list {
		summaries[i] = summarize(ds)
	}
	c.JSON(http.StatusOK, gin.H{"datasets": summaries})
}

func (s *Server) handleDataset(c *gin.Context) {
	ds := s.catalog.Get(c.Param("id"))
	c.JSON(http.StatusOK, summarize(ds))
}

// handleAnalytics treats the request's raw query string as the codec wire
// format: decode against the resolved dataset's defaults, sanitize, compute.
// Any garbage in the URL is repaired, never rejected.
func (s *Server) handleAnalytics(c *gin.Context) {
	ds := s.catalog.Get(c.Query("dataset"))
	decoded := query.Decode(c.Request.URL.RawQuery, query.Defaults(ds))
	q := query.Sanitize(decoded, ds)
	result := analytics.Compute(ds, q)

	c.JSON(http.StatusOK, gin.H{
		"query":  q,
		"result": result,
	})
}

func (s *Server) handleGetTheme(c *gin.Context) {
	theme, out := s.store.ReadTheme()
	c.JSON(http.StatusOK, outcomeBody(out, gin.H{"theme": theme}))
}

func (s *Server) handlePutTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing theme field"})
		return
	}

	out := s.store.WriteTheme(storage.Theme(req.Theme))
	c.JSON(http.StatusOK, outcomeBody(out, gin.H{"theme": out.State.Theme}))
}

func (s *Server) handleListViews(c *gin.Context) {
	out := s.store.Read()
	c.JSON(http.StatusOK, outcomeBody(out, gin.H{"savedViews": out.State.SavedViews}))
}

func (s *Server) handleSaveView(c *gin.Context) {
	var req struct {
		Name  string      `json:"name" binding:"required"`
		Query query.Query `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing name field"})
		return
	}

	// Snapshot a canonical query, whatever the client sent.
	ds := s.catalog.Get(req.Query.DatasetID)
	q := query.Sanitize(req.Query, ds)

	current := s.store.Read().State.SavedViews
	next, ok := storage.AppendView(current, req.Name, q)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view name must not be empty"})
		return
	}

	out := s.store.Write(storage.Partial{SavedViews: &next})
	c.JSON(http.StatusCreated, outcomeBody(out, gin.H{"savedViews": out.State.SavedViews}))
}

func (s *Server) handleDeleteView(c *gin.Context) {
	current := s.store.Read().State.SavedViews
	next := storage.RemoveView(current, c.Param("id"))

	out := s.store.Write(storage.Partial{SavedViews: &next})
	c.JSON(http.StatusOK, outcomeBody(out, gin.H{"savedViews": out.State.SavedViews}))
}

// outcomeBody attaches a non-fatal persistence warning to an otherwise
// successful response.
func outcomeBody(out storage.Outcome, body gin.H) gin.H {
	if out.Err != nil {
		body["warning"] = out.Err.Error()
	}
	return body
}
