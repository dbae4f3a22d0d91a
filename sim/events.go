package sim

import (
	"math"

	"github.com/rustyeddy/nestegg/plan"
)

// Impact is a life event's USD contribution to one year.
type Impact struct {
	OneTime   float64
	Recurring float64
}

func (i Impact) Total() float64 { return i.OneTime + i.Recurring }

// activeMonths returns how many months of year a recurring impact that
// activates at (ev.Year, ev.Month) covers.
func activeMonths(ev plan.LifeEvent, year int) int {
	switch {
	case year < ev.Year:
		return 0
	case year == ev.Year:
		return monthsPerYear - ev.Month + 1
	}
	return monthsPerYear
}

// EventImpact returns what ev contributes to year. The one-time amount lands
// only in the event's own year. The recurring amount runs from the event's
// month onward, prorated in the activation year, and is indexed at the US
// inflation rate per full year since activation when the event asks for it.
func EventImpact(ev plan.LifeEvent, year int, inflationUS float64) Impact {
	var out Impact
	if year == ev.Year {
		out.OneTime = ev.ImpactOneTime
	}
	months := activeMonths(ev, year)
	if months == 0 || ev.ImpactMonthly == 0 {
		return out
	}
	monthly := ev.ImpactMonthly
	if ev.IsInflationAdjusted {
		monthly *= math.Pow(1+inflationUS, float64(year-ev.Year))
	}
	out.Recurring = monthly * float64(months)
	return out
}

// eventState is the projector's running state for one life event.
type eventState struct {
	event plan.LifeEvent
	ix    indexer
}

func newEventState(ev plan.LifeEvent, inflationUS float64) *eventState {
	return &eventState{event: ev, ix: indexer{rate: inflationUS}}
}

// apply returns the event's impact on year. Years must be visited in
// ascending consecutive order.
func (s *eventState) apply(year int) Impact {
	ev := s.event
	var out Impact
	if year == ev.Year {
		out.OneTime = ev.ImpactOneTime
	}
	months := activeMonths(ev, year)
	if months == 0 {
		return out
	}
	if !s.ix.started {
		s.ix.start(year - ev.Year)
	} else {
		s.ix.advance()
	}
	monthly := ev.ImpactMonthly
	if ev.IsInflationAdjusted {
		monthly *= s.ix.factor
	}
	out.Recurring = monthly * float64(months)
	return out
}
