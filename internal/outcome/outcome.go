// Package outcome maps a run's error to a user-facing message and an exit
// code. Classify is the only place errors are translated.
package outcome

import (
	"context"
	"errors"
	"fmt"

	"github.com/up2ynab/up2ynab/internal/accounts"
	"github.com/up2ynab/up2ynab/internal/apiclient"
	"github.com/up2ynab/up2ynab/internal/config"
	"github.com/up2ynab/up2ynab/internal/syncer"
	"github.com/up2ynab/up2ynab/internal/up"
)

// Class groups errors by what the user should do about them.
type Class int

const (
	OK Class = iota
	Unknown
	// Config covers missing or rejected tokens and bad settings.
	Config
	// Transient covers network failures, rate limits and server errors.
	Transient
	// Logic covers account resolution, unexpected 4xx and bad source data.
	Logic
	Interrupted
)

var exitCodes = map[Class]int{
	OK:          0,
	Unknown:     1,
	Config:      2,
	Transient:   3,
	Logic:       4,
	Interrupted: 130,
}

func (c Class) String() string {
	switch c {
	case OK:
		return "ok"
	case Config:
		return "config"
	case Transient:
		return "transient"
	case Logic:
		return "logic"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode is the process status for the class.
func (c Class) ExitCode() int {
	return exitCodes[c]
}

// Outcome is a classified error ready to print.
type Outcome struct {
	Class    Class
	Headline string
	Advice   string
	Err      error
}

// ExitCode is the process status for the outcome.
func (o Outcome) ExitCode() int {
	return o.Class.ExitCode()
}

// Classify maps err onto the error taxonomy. A nil error is OK.
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Class: OK}
	}
	o := Outcome{Err: err}

	var (
		status    *apiclient.StatusError
		transport *apiclient.TransportError
		resolve   *accounts.ResolutionError
		stage     *syncer.StageError
	)
	switch {
	case errors.Is(err, context.Canceled):
		o.Class = Interrupted
		o.Headline = "Interrupted."
		o.Advice = "Nothing is lost: rerunning imports the same transactions without duplicating them."

	case errors.Is(err, apiclient.ErrAuthMissing):
		o.Class = Config
		o.Headline = "One or both of your API tokens were not provided."
		o.Advice = "View `up2ynab check --help` for setup instructions."

	case errors.Is(err, apiclient.ErrUnauthorized):
		o.Class = Config
		o.Headline = "An authentication error occurred accessing one of the APIs."
		o.Advice = "Please run `up2ynab check` to help fix this problem."

	case errors.Is(err, config.ErrInvalid):
		o.Class = Config
		o.Headline = "The configuration is invalid."
		o.Advice = "Fix the setting below and try again."

	case errors.Is(err, apiclient.ErrRateLimited):
		o.Class = Transient
		o.Headline = "The rate limit has been exceeded for one of the APIs."
		o.Advice = "Please wait before trying again."

	case errors.As(err, &status) && status.ServerError():
		o.Class = Transient
		o.Headline = "An internal server error occurred requesting the URL"
		o.Advice = status.URL

	case errors.As(err, &transport), errors.Is(err, context.DeadlineExceeded):
		o.Class = Transient
		o.Headline = "Could not get a response from one of the APIs."
		o.Advice = "Check your network connection and try again."

	case errors.As(err, &resolve):
		o.Class = Logic
		o.Headline = fmt.Sprintf("Could not resolve the account: %s.", resolve)
		o.Advice = "The YNAB account to import into is chosen with --ynab-account-name."
		if errors.Is(err, accounts.ErrAmbiguous) {
			o.Advice = "Account names must be unique. " + o.Advice
		}

	case errors.As(err, &status):
		o.Class = Logic
		o.Headline = fmt.Sprintf("Accessing one of the APIs resulted in an unexpected HTTP %d error.", status.StatusCode)
		o.Advice = status.Detail

	case errors.Is(err, up.ErrTooManyPages), errors.Is(err, up.ErrForeignNextLink):
		o.Class = Logic
		o.Headline = "The Up API returned an unexpected page sequence."
		o.Advice = "Try a shorter --days window."

	case errors.As(err, &stage) && stage.Stage == syncer.StageNormalize:
		o.Class = Logic
		o.Headline = "The Up API returned a transaction that could not be converted."

	default:
		o.Class = Unknown
		o.Headline = "An unexpected error occurred."
	}
	return o
}
