package web

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"thoreinstein.com/skinscout/pkg/api"
	skerrors "thoreinstein.com/skinscout/pkg/errors"
	"thoreinstein.com/skinscout/pkg/listing"
	"thoreinstein.com/skinscout/pkg/recent"
	"thoreinstein.com/skinscout/pkg/search"
)

const errSkinRequired = "skin name is required"

// RecentEntry is a recent search as served to the front end.
type RecentEntry struct {
	recent.Entry
	URL string `json:"url"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status, err := s.searcher.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "api": status.Status})
}

// handleResults decodes a shareable results URL, records it and returns the
// API response. Optional sort, order and market parameters shape the result.
func (s *Server) handleResults(c *gin.Context) {
	query := c.Request.URL.Query()
	q := search.Decode(query)
	if !q.IsExecutable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSkinRequired})
		return
	}

	field, err := listing.ParseSortField(query.Get("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir := listing.Asc
	if query.Get("order") == string(listing.Desc) {
		dir = listing.Desc
	}

	ctx := c.Request.Context()
	s.recent.Record(ctx, q)

	var resp *api.Response
	if market := query.Get("market"); market != "" {
		resp, err = s.searcher.Market(ctx, market, q)
	} else {
		resp, err = s.searcher.Cheapest(ctx, q)
	}
	if err != nil {
		s.writeAPIError(c, err)
		return
	}

	out := *resp
	out.Listings = listing.Sort(resp.Listings, field, dir)
	c.JSON(http.StatusOK, out)
}

func (s *Server) writeAPIError(c *gin.Context, err error) {
	var apiErr *skerrors.APIError
	if !errors.As(err, &apiErr) {
		s.logger.Error("search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusBadGateway
	switch {
	case apiErr.StatusCode == 0:
		status = http.StatusServiceUnavailable
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	}
	c.JSON(status, gin.H{"error": apiErr.Message})
}

func (s *Server) handleURL(c *gin.Context) {
	q := search.Decode(c.Request.URL.Query())
	if !q.IsExecutable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSkinRequired})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": search.ResultsURL(q)})
}

func (s *Server) handleListRecent(c *gin.Context) {
	entries := s.recent.List(c.Request.Context())
	out := make([]RecentEntry, len(entries))
	for i, e := range entries {
		out[i] = RecentEntry{Entry: e, URL: search.ResultsURL(e.Params)}
	}
	c.JSON(http.StatusOK, gin.H{"entries": out, "count": len(out)})
}

func (s *Server) handleClearRecent(c *gin.Context) {
	s.recent.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListFavorites(c *gin.Context) {
	favs := s.favorites.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"favorites": favs, "count": len(favs)})
}

func (s *Server) handleToggleFavorite(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errSkinRequired})
		return
	}
	favorite := s.favorites.Toggle(c.Request.Context(), name)
	c.JSON(http.StatusOK, gin.H{"name": name, "favorite": favorite})
}
