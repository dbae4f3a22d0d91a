// Package sim projects a plan year by year. Each run is a pure function of
// its input and start year: nothing outside the call is read or written, so
// runs can proceed concurrently without coordination.
package sim

import (
	"context"
	"time"

	"github.com/rustyeddy/nestegg/market"
	"github.com/rustyeddy/nestegg/plan"
)

// Phase is where a run stands on the year axis.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Completed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Projector runs simulations. Now supplies the clock used to pick the start
// year; the zero value uses time.Now.
type Projector struct {
	Now func() time.Time
}

// StartYear is the current calendar year according to the projector's clock.
func (p Projector) StartYear() int {
	if p.Now != nil {
		return p.Now().Year()
	}
	return time.Now().Year()
}

// Simulate validates in and projects it from the current year through the
// profile's terminal year. ctx is checked between years.
func (p Projector) Simulate(ctx context.Context, in plan.SimulationInput) ([]plan.SimulationResult, error) {
	r, err := newRun(in, p.StartYear())
	if err != nil {
		return nil, err
	}
	out := make([]plan.SimulationResult, 0, r.terminal-r.start+1)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, ok := r.next()
		if !ok {
			return out, nil
		}
		out = append(out, res)
	}
}

// Simulate projects in from the current calendar year.
func Simulate(in plan.SimulationInput) ([]plan.SimulationResult, error) {
	return Projector{}.Simulate(context.Background(), in)
}

// Project projects in from startYear. The same input and start year always
// produce the same series.
func Project(in plan.SimulationInput, startYear int) ([]plan.SimulationResult, error) {
	return Projector{Now: func() time.Time {
		return time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}}.Simulate(context.Background(), in)
}

// run is the state of one projection.
type run struct {
	profile  plan.UserProfile
	conv     market.Converter
	ledgers  []*ledger
	accruals []*accrual
	events   []*eventState

	phase    Phase
	start    int
	terminal int
	year     int

	// eventTotal is the running sum of every event impact applied so far.
	eventTotal float64
}

func newRun(in plan.SimulationInput, startYear int) (*run, error) {
	if err := in.Validate(startYear); err != nil {
		return nil, err
	}
	conv, err := market.NewConverter(in.ExchangeRateUSDJPY)
	if err != nil {
		return nil, err
	}

	r := &run{
		profile:  in.Profile,
		conv:     conv,
		phase:    NotStarted,
		start:    startYear,
		terminal: in.Profile.TerminalYear(),
	}
	for _, a := range in.Assets {
		r.ledgers = append(r.ledgers, newLedger(a))
	}
	for _, p := range in.Pensions {
		r.accruals = append(r.accruals, newAccrual(p, in.InflationRate(p.Currency)))
	}
	for _, ev := range in.LifeEvents {
		r.events = append(r.events, newEventState(ev, in.InflationRateUS))
	}
	return r, nil
}

// next emits the snapshot for the next year, or false once the terminal year
// has been emitted.
func (r *run) next() (plan.SimulationResult, bool) {
	switch r.phase {
	case Completed:
		return plan.SimulationResult{}, false
	case NotStarted:
		r.phase = Running
		r.year = r.start
	default:
		r.year++
	}
	if r.year > r.terminal {
		r.phase = Completed
		return plan.SimulationResult{}, false
	}

	res := r.step(r.year)
	if r.year == r.terminal {
		r.phase = Completed
	}
	return res, true
}

func (r *run) step(year int) plan.SimulationResult {
	age := r.profile.AgeIn(year)
	res := plan.SimulationResult{
		Year:           year,
		Age:            age,
		PensionIncomes: make(map[string]float64, len(r.accruals)),
		AssetBalances:  make(map[string]float64, len(r.ledgers)),
		AssetDrawdowns: make(map[string]float64, len(r.ledgers)),
	}

	var balances float64
	for _, l := range r.ledgers {
		bal, draw := l.step(age, r.profile.RetirementAge, r.conv)
		balances += bal
		res.AssetBalances[l.asset.Name] = bal
		res.AssetDrawdowns[l.asset.Name] = draw
	}

	for _, a := range r.accruals {
		res.PensionIncomes[a.pension.Name] = a.income(age, r.conv)
	}

	for _, s := range r.events {
		r.eventTotal += s.apply(year).Total()
	}

	res.TotalAssets = balances + r.eventTotal
	return res
}
