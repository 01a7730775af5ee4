// Package match exposes read-only routes over stored match results.
package match

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	matchrepo "github.com/Ramsey-B/laurel/internal/repositories/match"
	"github.com/Ramsey-B/laurel/internal/repositories/mastermatch"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Handler serves match review routes.
type Handler struct {
	matches *matchrepo.Repository
	masters *mastermatch.Repository
}

// NewHandler creates a match route handler.
func NewHandler(matches *matchrepo.Repository, masters *mastermatch.Repository) *Handler {
	return &Handler{
		matches: matches,
		masters: masters,
	}
}

// Register registers match routes on the group.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/jobs/:jobId/matches", h.ListMatches)
	g.GET("/jobs/:jobId/masters", h.ListMasterMatches)
	g.GET("/jobs/:jobId/records/:recordId", h.GetMasterMatch)
}

// ListMatches lists a job's matches ordered by overall score.
func (h *Handler) ListMatches(c echo.Context) error {
	ctx := c.Request().Context()
	jobID := c.Param("jobId")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	matches, err := h.matches.ListByJob(ctx, jobID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, matches)
}

// ListMasterMatches lists a job's master matches ordered by score.
func (h *Handler) ListMasterMatches(c echo.Context) error {
	ctx := c.Request().Context()
	jobID := c.Param("jobId")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	masters, err := h.masters.ListByJob(ctx, jobID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, masters)
}

// MasterMatchResponse is a master match with its full match list.
type MasterMatchResponse struct {
	Master  *models.MasterMatch `json:"master"`
	Matches []models.Match      `json:"matches"`
}

// GetMasterMatch returns the master match for one base record within a job,
// together with all of that record's matches in insertion order.
func (h *Handler) GetMasterMatch(c echo.Context) error {
	ctx := c.Request().Context()
	jobID := c.Param("jobId")
	recordID := c.Param("recordId")

	master, err := h.masters.Get(ctx, jobID, recordID)
	if err != nil {
		return err
	}
	if master == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "no master match for record")
	}

	matches, err := h.matches.ListByJobAndRecord(ctx, jobID, recordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MasterMatchResponse{
		Master:  master,
		Matches: matches,
	})
}
