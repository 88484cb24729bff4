package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a harvest failed.
type FailureKind int

const (
	// KindSourceIO means the URL list could not be read. It is fatal to the run.
	KindSourceIO FailureKind = iota + 1
	// KindTransport covers network errors, timeouts and non-2xx responses.
	KindTransport
	// KindParse means the body was not a readable RSS document.
	KindParse
	// KindWorkerInfrastructure means the worker itself stopped abnormally.
	KindWorkerInfrastructure
)

// String returns the short machine name of the kind.
func (k FailureKind) String() string {
	switch k {
	case KindSourceIO:
		return "source_io"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindWorkerInfrastructure:
		return "worker_infrastructure"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseFailureKind maps a machine name produced by String back to its kind.
func ParseFailureKind(name string) (FailureKind, error) {
	for k := KindSourceIO; k <= KindWorkerInfrastructure; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown failure kind %q", name)
}

// MarshalText encodes the kind by its machine name.
func (k FailureKind) MarshalText() ([]byte, error) {
	if k < KindSourceIO || k > KindWorkerInfrastructure {
		return nil, fmt.Errorf("cannot encode failure kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *FailureKind) UnmarshalText(text []byte) error {
	parsed, err := ParseFailureKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Describe returns a human readable label for reports.
func (k FailureKind) Describe() string {
	switch k {
	case KindSourceIO:
		return "could not read feed list"
	case KindTransport:
		return "request failed"
	case KindParse:
		return "invalid feed document"
	case KindWorkerInfrastructure:
		return "worker crashed"
	default:
		return "unknown failure"
	}
}

// FeedError is the error carried by a failed Outcome.
type FeedError struct {
	Kind FailureKind
	// URL is the offending feed URL, or the list path for KindSourceIO.
	URL string
	Err error
}

func (e *FeedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Describe(), e.URL)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind.Describe(), e.URL, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// NewFeedError builds a FeedError of the given kind.
func NewFeedError(kind FailureKind, url string, err error) *FeedError {
	return &FeedError{Kind: kind, URL: url, Err: err}
}

// KindOf returns the FailureKind of err, or 0 if err is not a FeedError.
func KindOf(err error) FailureKind {
	var fe *FeedError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
