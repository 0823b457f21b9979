package bot

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/skywrite/mimic/markov"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunAPI serves the admin surface: health, metrics, a read-only generation
// preview, and a trigger for a full compose/publish cycle.
func (s *Server) RunAPI(bind string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoprometheus.NewMiddleware("mimic"))

	e.GET("/_health", s.handleHealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/preview", s.handlePreview)
	e.POST("/compose", s.handleCompose)

	s.logger.Info("admin API listening", "bind", bind)
	return e.Start(bind)
}

type HealthStatus struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{Status: "ok"})
}

type GenerateResponse struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

func (s *Server) handlePreview(c echo.Context) error {
	res, err := s.Preview(c.Request().Context())
	if err != nil {
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, GenerateResponse{Text: res.Text, Length: res.Length})
}

func (s *Server) handleCompose(c echo.Context) error {
	ctx := c.Request().Context()
	text, err := s.Compose(ctx)
	if err != nil {
		return generationHTTPError(err)
	}
	if err := s.PublishAll(ctx, text); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, GenerateResponse{Text: text, Length: utf8.RuneCountInString(text)})
}

func generationHTTPError(err error) *echo.HTTPError {
	var bounds *markov.BoundsError
	switch {
	case errors.Is(err, markov.ErrEmptyCorpus):
		return echo.NewHTTPError(http.StatusConflict, "corpus has no qualifying training items yet")
	case errors.As(err, &bounds), errors.Is(err, ErrRepeatedOutput):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
