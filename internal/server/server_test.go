package server

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/rustyeddy/nestegg/config"
	"github.com/rustyeddy/nestegg/estate"
	"github.com/rustyeddy/nestegg/journal"
	"github.com/rustyeddy/nestegg/plan"
	"github.com/rustyeddy/nestegg/sim"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	s := New(journal.NewFileStore(filepath.Join(t.TempDir(), "plan.json")), config.Default())
	s.Logger = log.New(io.Discard, "", 0)
	s.Projector = sim.Projector{Now: func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	}}
	return s
}

func do(t *testing.T, s *Server, method, uri string, body any) *fasthttp.Response {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req.SetBody(b)
		req.Header.SetContentType("application/json")
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)

	resp := &fasthttp.Response{}
	ctx.Response.CopyTo(resp)
	return resp
}

func decodeBody(t *testing.T, resp *fasthttp.Response, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body(), v), string(resp.Body()))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	resp := do(t, newTestServer(t), fasthttp.MethodGet, "/healthz", nil)
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body()))
}

func TestSimulate(t *testing.T) {
	t.Parallel()

	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/simulate", plan.Example())
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "application/json", string(resp.Header.ContentType()))

	var series []plan.SimulationResult
	decodeBody(t, resp, &series)
	require.Len(t, series, 2070-2026+1)
	assert.Equal(t, 2026, series[0].Year)
	assert.Equal(t, 51, series[0].Age)
	assert.Contains(t, series[0].AssetBalances, "NISA")
}

func TestSimulateAppliesConfigDefaults(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(plan.Example())
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	delete(body, "exchange_rate_usd_jpy")
	delete(body, "inflation_rate_us")

	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/simulate", body)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))

	var got []plan.SimulationResult
	decodeBody(t, resp, &got)
	in := plan.Example()
	in.InflationRateUS = 0.03
	want, err := sim.Project(in, 2026)
	require.NoError(t, err)
	assert.InDelta(t, want[20].TotalAssets, got[20].TotalAssets, 1e-6)
}

func TestSimulateKeepsExplicitZeroInflation(t *testing.T) {
	t.Parallel()

	in := plan.SimulationInput{
		Profile: plan.UserProfile{BirthYear: 1955, RetirementAge: 65, LifeExpectancy: 90},
		Pensions: []plan.Pension{{
			Name: "ss", Type: plan.PensionSocialSecurity, StartAge: 65,
			MonthlyAmountEstimated: 100, Currency: plan.USD, IsInflationAdjusted: true,
		}},
		ExchangeRateUSDJPY: 150,
	}
	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/simulate", in)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))

	var series []plan.SimulationResult
	decodeBody(t, resp, &series)
	assert.Equal(t, 1200.0, series[0].PensionIncomes["ss"])
	assert.Equal(t, 1200.0, series[5].PensionIncomes["ss"])
}

func TestSimulateRejectsExplicitZeroExchangeRate(t *testing.T) {
	t.Parallel()

	in := plan.Example()
	in.ExchangeRateUSDJPY = 0
	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/simulate", in)
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())

	var e errorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, plan.CodeInvalidInput, e.Code)
	assert.Equal(t, []string{"exchange_rate_usd_jpy"}, e.Fields)
}

func TestSimulateValidationError(t *testing.T) {
	t.Parallel()

	in := plan.Example()
	in.Assets[1].ExpectedReturnRate = 2
	in.Pensions[0].StartAge = 40
	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/simulate", in)
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())

	var e errorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "error", e.Status)
	assert.Equal(t, plan.CodeInvalidInput, e.Code)
	assert.Equal(t, []string{"assets[1].expected_return_rate", "pensions[0].start_age"}, e.Fields)
}

func TestSimulateBadBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("/simulate")
	req.SetBodyString("{")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "invalid request body")
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	resp := do(t, s, fasthttp.MethodGet, "/load", nil)
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
	var st journal.Status
	decodeBody(t, resp, &st)
	assert.Equal(t, journal.Status{Status: "error", Message: "No saved data found"}, st)

	resp = do(t, s, fasthttp.MethodPost, "/save", plan.Example())
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	decodeBody(t, resp, &st)
	assert.Equal(t, journal.Status{Status: "success", Message: "Data saved successfully"}, st)

	resp = do(t, s, fasthttp.MethodGet, "/load", nil)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	var in plan.SimulationInput
	decodeBody(t, resp, &in)
	assert.Equal(t, plan.Example().Profile, in.Profile)
	require.Len(t, in.Assets, 2)
	assert.NotEmpty(t, in.Assets[0].ID)
}

func TestInheritance(t *testing.T) {
	t.Parallel()

	heirs := 2
	rate := 5.0
	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/inheritance", InheritanceRequest{
		Input:        plan.Example(),
		Year:         2050,
		InterestRate: &rate,
		Heirs:        &heirs,
	})
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))

	var rep estate.Report
	decodeBody(t, resp, &rep)
	assert.Equal(t, 2050, rep.Year)
	assert.Equal(t, 72, rep.SpouseAge)
	assert.Equal(t, 18, rep.RemainingYears, "spouse life expectancy from config")
	assert.InDelta(t, estate.PVFactor(5, 18), rep.PVFactor, 1e-12)
	assert.Equal(t, 150.0, rep.ExchangeRate, "exchange rate from the input")
	assert.Equal(t, 10_000_000.0, rep.ExemptionLimitJPY)
	require.Len(t, rep.Pensions, 2)
	require.Len(t, rep.Assets, 2)
	assert.Equal(t, "401k", rep.Assets[0].Name)
}

func TestInheritanceYearNotProjected(t *testing.T) {
	t.Parallel()

	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/inheritance", InheritanceRequest{
		Input: plan.Example(),
		Year:  2100,
	})
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())

	var e errorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, plan.CodeNotFound, e.Code)
}

func TestInheritanceBadParameters(t *testing.T) {
	t.Parallel()

	heirs := 0
	resp := do(t, newTestServer(t), fasthttp.MethodPost, "/inheritance", InheritanceRequest{
		Input: plan.Example(),
		Year:  2050,
		Heirs: &heirs,
	})
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())

	var e errorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, []string{"heirs"}, e.Fields)
}

func TestPVFactor(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	tests := []struct {
		query  string
		status int
		want   float64
	}{
		{"rate=5&years=10", fasthttp.StatusOK, estate.PVFactor(5, 10)},
		{"rate=0&years=7", fasthttp.StatusOK, 7},
		{"rate=-1&years=7", fasthttp.StatusBadRequest, 0},
		{"rate=abc&years=7", fasthttp.StatusBadRequest, 0},
		{"rate=1&years=", fasthttp.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, s, fasthttp.MethodGet, "/pv-factor?"+tt.query, nil)
			require.Equal(t, tt.status, resp.StatusCode(), string(resp.Body()))
			if tt.status != fasthttp.StatusOK {
				return
			}
			var body struct {
				PVFactor float64 `json:"pv_factor"`
			}
			decodeBody(t, resp, &body)
			assert.InDelta(t, tt.want, body.PVFactor, 1e-12)
		})
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	resp := do(t, s, fasthttp.MethodGet, "/nope", nil)
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())

	resp = do(t, s, fasthttp.MethodGet, "/simulate", nil)
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, resp.StatusCode())
	assert.Equal(t, "POST", string(resp.Header.Peek("Allow")))
}

func TestCORS(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodOptions)
	req.SetRequestURI("/simulate")
	req.Header.Set("Origin", "http://localhost:5173")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)

	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "http://localhost:5173", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))

	resp := func(origin string) *fasthttp.RequestCtx {
		var req fasthttp.Request
		req.Header.SetMethod(fasthttp.MethodGet)
		req.SetRequestURI("/healthz")
		req.Header.Set("Origin", origin)
		var ctx fasthttp.RequestCtx
		ctx.Init(&req, nil, nil)
		s.Handler()(&ctx)
		return &ctx
	}
	assert.Empty(t, resp("https://evil.example").Response.Header.Peek("Access-Control-Allow-Origin"))
	assert.Equal(t, "http://localhost:5174", string(resp("http://localhost:5174").Response.Header.Peek("Access-Control-Allow-Origin")))
}
