// Package server exposes projection, valuation and persistence over a JSON
// HTTP API.
package server

import (
	"errors"
	"log"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/rustyeddy/nestegg/config"
	"github.com/rustyeddy/nestegg/estate"
	"github.com/rustyeddy/nestegg/journal"
	"github.com/rustyeddy/nestegg/plan"
	"github.com/rustyeddy/nestegg/sim"
)

type Server struct {
	Store     journal.Store
	Config    *config.Config
	Projector sim.Projector
	Logger    *log.Logger

	srv *fasthttp.Server
}

func New(store journal.Store, cfg *config.Config) *Server {
	return &Server{
		Store:  store,
		Config: cfg,
		Logger: log.New(os.Stderr, "nestegg: ", log.LstdFlags),
	}
}

// InheritanceRequest projects Input and values Year. Unset parameters come
// from the valuation config; the exchange rate falls back to the input's.
type InheritanceRequest struct {
	Input                plan.SimulationInput `json:"input"`
	Year                 int                  `json:"year"`
	InterestRate         *float64             `json:"interest_rate,omitempty"`
	SpouseLifeExpectancy *int                 `json:"spouse_life_expectancy,omitempty"`
	Heirs                *int                 `json:"heirs,omitempty"`
	ExchangeRate         *float64             `json:"exchange_rate,omitempty"`
}

type errorResponse struct {
	Status  string    `json:"status"`
	Code    plan.Code `json:"code,omitempty"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.cors(s.route))
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	read, write, err := s.Config.Server.Timeouts()
	if err != nil {
		return err
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "nestegg",
		ReadTimeout:  read,
		WriteTimeout: write,
	}
	s.Logger.Printf("listening on %s", addr)
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown()
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	method := string(ctx.Method())
	switch path := string(ctx.Path()); path {
	case "/simulate":
		s.only(ctx, method, fasthttp.MethodPost, s.handleSimulate)
	case "/save":
		s.only(ctx, method, fasthttp.MethodPost, s.handleSave)
	case "/load":
		s.only(ctx, method, fasthttp.MethodGet, s.handleLoad)
	case "/inheritance":
		s.only(ctx, method, fasthttp.MethodPost, s.handleInheritance)
	case "/pv-factor":
		s.only(ctx, method, fasthttp.MethodGet, s.handlePVFactor)
	case "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{
			Status:  journal.StatusError,
			Code:    plan.CodeNotFound,
			Message: "no route for " + path,
		})
	}
}

func (s *Server) only(ctx *fasthttp.RequestCtx, method, want string, h fasthttp.RequestHandler) {
	if method != want {
		ctx.Response.Header.Set("Allow", want)
		writeJSON(ctx, fasthttp.StatusMethodNotAllowed, errorResponse{
			Status:  journal.StatusError,
			Message: "method " + method + " not allowed",
		})
		return
	}
	h(ctx)
}

func (s *Server) handleSimulate(ctx *fasthttp.RequestCtx) {
	in := s.Config.NewInput()
	if !decode(ctx, &in) {
		return
	}
	series, err := s.Projector.Simulate(ctx, in)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, series)
}

func (s *Server) handleSave(ctx *fasthttp.RequestCtx) {
	var in plan.SimulationInput
	if !decode(ctx, &in) {
		return
	}
	err := s.Store.Save(ctx, in)
	if err != nil {
		s.Logger.Printf("save: %v", err)
		writeJSON(ctx, statusCode(err), journal.StatusOf(err))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, journal.StatusOf(nil))
}

func (s *Server) handleLoad(ctx *fasthttp.RequestCtx) {
	in, err := s.Store.Load(ctx)
	if err != nil {
		if !journal.IsNoData(err) {
			s.Logger.Printf("load: %v", err)
		}
		writeJSON(ctx, statusCode(err), journal.StatusOf(err))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, in)
}

func (s *Server) handleInheritance(ctx *fasthttp.RequestCtx) {
	req := InheritanceRequest{Input: s.Config.NewInput()}
	if !decode(ctx, &req) {
		return
	}
	in := req.Input
	series, err := s.Projector.Simulate(ctx, in)
	if err != nil {
		writeError(ctx, err)
		return
	}

	v := s.Config.Valuation
	vin := estate.Inputs{
		Series:               series,
		Profile:              in.Profile,
		Pensions:             in.Pensions,
		Year:                 req.Year,
		InterestRate:         deref(req.InterestRate, v.InterestRate),
		SpouseLifeExpectancy: deref(req.SpouseLifeExpectancy, v.SpouseLifeExpectancy),
		Heirs:                deref(req.Heirs, v.Heirs),
		ExchangeRate:         deref(req.ExchangeRate, in.ExchangeRateUSDJPY),
	}
	rep, err := estate.Value(vin)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, rep)
}

func (s *Server) handlePVFactor(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	rate, err := strconv.ParseFloat(string(args.Peek("rate")), 64)
	if err != nil || rate < 0 {
		writeError(ctx, plan.Invalid("rate", "must be a non-negative number, got %q", args.Peek("rate")))
		return
	}
	years, err := strconv.Atoi(string(args.Peek("years")))
	if err != nil || years < 0 {
		writeError(ctx, plan.Invalid("years", "must be a non-negative integer, got %q", args.Peek("years")))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"rate":      rate,
		"years":     years,
		"pv_factor": estate.PVFactor(rate, years),
	})
}

func (s *Server) cors(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		origin := string(ctx.Request.Header.Peek("Origin"))
		if origin != "" && slices.Contains(s.Config.Server.AllowedOrigins, origin) {
			h := &ctx.Response.Header
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Vary", "Origin")
			if ctx.IsOptions() {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
		}
		next(ctx)
	}
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		s.Logger.Printf("%s %s %d %s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	}
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{
			Status:  journal.StatusError,
			Code:    plan.CodeInvalidInput,
			Message: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

func statusCode(err error) int {
	if journal.IsNoData(err) {
		return fasthttp.StatusNotFound
	}
	switch plan.CodeOf(err) {
	case plan.CodeInvalidInput:
		return fasthttp.StatusBadRequest
	case plan.CodeNotFound:
		return fasthttp.StatusNotFound
	}
	return fasthttp.StatusInternalServerError
}

func writeError(ctx *fasthttp.RequestCtx, err error) {
	resp := errorResponse{
		Status:  journal.StatusError,
		Code:    plan.CodeOf(err),
		Message: err.Error(),
	}
	var (
		verrs plan.ValidationErrors
		perr  *plan.Error
	)
	switch {
	case errors.As(err, &verrs):
		resp.Fields = verrs.Fields()
	case errors.As(err, &perr) && perr.Field != "":
		resp.Fields = []string{perr.Field}
	}
	writeJSON(ctx, statusCode(err), resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
