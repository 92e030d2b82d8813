// Package tokencheck verifies API tokens independently of a sync run.
package tokencheck

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/up2ynab/up2ynab/internal/apiclient"
)

// Status is the outcome of checking one token.
type Status int

const (
	NotProvided Status = iota
	Invalid
	Valid
)

func (s Status) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "not provided"
	}
}

// PingFunc reports whether the API accepts the token.
type PingFunc func(ctx context.Context) (bool, error)

// Probe describes one API to check. A nil Ping means no token was provided.
type Probe struct {
	API  string
	Ping PingFunc
}

// Check is the result for one API. Err is set when the probe failed without
// the API judging the token; Status is then Invalid.
type Check struct {
	API    string
	Status Status
	Err    error
}

// Report holds one Check per probe, in probe order.
type Report struct {
	Checks []Check
}

// Verify runs every provided probe concurrently. Probes never share state,
// so one API failing does not affect the other.
func Verify(ctx context.Context, probes []Probe) Report {
	checks := make([]Check, len(probes))

	var wg conc.WaitGroup
	for i, p := range probes {
		i, p := i, p
		checks[i] = Check{API: p.API, Status: NotProvided}
		if p.Ping == nil {
			continue
		}
		wg.Go(func() {
			ok, err := p.Ping(ctx)
			switch {
			case err != nil:
				checks[i].Status = Invalid
				checks[i].Err = err
			case ok:
				checks[i].Status = Valid
			default:
				checks[i].Status = Invalid
			}
		})
	}
	wg.Wait()

	return Report{Checks: checks}
}

// OK reports whether every token was provided and accepted.
func (r Report) OK() bool {
	return r.Err() == nil
}

// Err folds the report into a single error. A missing token outranks a
// rejected one, which outranks a probe that failed for another reason.
func (r Report) Err() error {
	for _, c := range r.Checks {
		if c.Status == NotProvided {
			return apiclient.ErrAuthMissing
		}
	}
	for _, c := range r.Checks {
		if c.Status == Invalid && c.Err == nil {
			return apiclient.ErrUnauthorized
		}
	}
	for _, c := range r.Checks {
		if c.Err != nil {
			return c.Err
		}
	}
	return nil
}
