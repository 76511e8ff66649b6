package fakeapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/five82/kennel/internal/rescue"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Server serves a Catalog over the Rescue API routes.
type Server struct {
	catalog Catalog
	logger  *log.Logger
	latency time.Duration
	engine  *gin.Engine

	mu       sync.Mutex
	requests map[string]int
	failures map[string][]int
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger logs every request.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLatency delays every response, which makes cancellation visible.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// New builds a Server for catalog.
func New(catalog Catalog, opts ...Option) *Server {
	s := &Server{
		catalog:  catalog,
		logger:   log.New(io.Discard),
		requests: make(map[string]int),
		failures: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.track())
	api := r.Group("/api")
	api.GET("/dogs", s.listDogs)
	api.GET("/dogs/counts", s.counts)
	api.GET("/regions", s.regions)
	api.GET("/organizations", s.organizations)
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Requests reports how many requests path has received.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// FailNext makes the next requests to path answer with the given statuses,
// one status per request.
func (s *Server) FailNext(path string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], statuses...)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("fixture api listening", "addr", addr, "dogs", len(s.catalog.Dogs))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// track counts requests, applies injected failures and latency, and logs.
func (s *Server) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		start := time.Now()

		s.mu.Lock()
		s.requests[path]++
		var status int
		if queued := s.failures[path]; len(queued) > 0 {
			status, s.failures[path] = queued[0], queued[1:]
		}
		s.mu.Unlock()

		if s.latency > 0 {
			select {
			case <-time.After(s.latency):
			case <-c.Request.Context().Done():
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
		}
		if status != 0 {
			c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		} else {
			c.Next()
		}
		s.logger.Debug("fixture request",
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func (s *Server) listDogs(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	limit = min(limit, maxLimit)

	matched := s.match(c, "")
	start := min(offset, len(matched))
	end := min(start+limit, len(matched))
	c.JSON(http.StatusOK, matched[start:end])
}

// counts reports, for each facet, how many dogs match every other active
// filter plus that facet's value.
func (s *Server) counts(c *gin.Context) {
	f := func(name string) []rescue.CountOption {
		return facet(s.match(c, name), dogFields[name])
	}
	c.JSON(http.StatusOK, rescue.FilterCounts{
		Size:             f("standardized_size"),
		Age:              f("age_category"),
		Sex:              f("sex"),
		Breed:            f("standardized_breed"),
		BreedGroup:       f("breed_group"),
		Organization:     f("organization_id"),
		LocationCountry:  f("location_country"),
		AvailableCountry: f("available_to_country"),
		AvailableRegion:  f("available_to_region"),
	})
}

func (s *Server) regions(c *gin.Context) {
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country required"})
		return
	}
	regions := s.catalog.Regions[country]
	if regions == nil {
		regions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"country": country, "regions": regions})
}

func (s *Server) organizations(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Organizations)
}

// match returns the dogs satisfying every filter parameter except skip.
func (s *Server) match(c *gin.Context, skip string) []rescue.Dog {
	out := make([]rescue.Dog, 0, len(s.catalog.Dogs))
	for _, d := range s.catalog.Dogs {
		if matches(c, d, skip) {
			out = append(out, d)
		}
	}
	return out
}

func matches(c *gin.Context, d rescue.Dog, skip string) bool {
	for name, field := range dogFields {
		if name == skip {
			continue
		}
		want := strings.TrimSpace(c.Query(name))
		if want == "" {
			continue
		}
		if !slices.ContainsFunc(field(d), func(v string) bool { return strings.EqualFold(v, want) }) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query("search"))); q != "" {
		if !strings.Contains(strings.ToLower(d.Name), q) && !strings.Contains(strings.ToLower(d.Breed), q) {
			return false
		}
	}
	return true
}

var dogFields = map[string]func(rescue.Dog) []string{
	"standardized_size":    func(d rescue.Dog) []string { return []string{d.Size} },
	"age_category":         func(d rescue.Dog) []string { return []string{d.AgeCategory} },
	"sex":                  func(d rescue.Dog) []string { return []string{d.Sex} },
	"standardized_breed":   func(d rescue.Dog) []string { return []string{d.Breed} },
	"breed_group":          func(d rescue.Dog) []string { return []string{d.BreedGroup} },
	"organization_id":      func(d rescue.Dog) []string { return []string{strconv.FormatInt(d.OrganizationID, 10)} },
	"location_country":     func(d rescue.Dog) []string { return []string{d.LocationCountry} },
	"available_to_country": func(d rescue.Dog) []string { return d.AvailableTo },
	"available_to_region":  func(d rescue.Dog) []string { return d.AvailableRegion },
}

func facet(dogs []rescue.Dog, values func(rescue.Dog) []string) []rescue.CountOption {
	counts := make(map[string]int)
	for _, d := range dogs {
		for _, v := range values(d) {
			counts[v]++
		}
	}
	out := make([]rescue.CountOption, 0, len(counts))
	for v, n := range counts {
		out = append(out, rescue.CountOption{Value: v, Label: v, Count: n})
	}
	slices.SortFunc(out, func(a, b rescue.CountOption) int { return strings.Compare(a.Value, b.Value) })
	return out
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
