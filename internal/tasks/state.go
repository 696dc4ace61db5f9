package tasks

import (
	"github.com/desertthunder/songsmith/internal/models"
)

// Status is the phase of a dashboard load.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// ErrorKind classifies a failed load for display.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	NoSession
	SessionExpired
	ProfileFetchError
	TasteFetchError
)

func (k ErrorKind) String() string {
	switch k {
	case NoSession:
		return "no_session"
	case SessionExpired:
		return "session_expired"
	case ProfileFetchError:
		return "profile_fetch_error"
	case TasteFetchError:
		return "taste_fetch_error"
	default:
		return ""
	}
}

// Message is the user-facing text for the failure.
func (k ErrorKind) Message() string {
	switch k {
	case NoSession:
		return "You are not logged in."
	case SessionExpired:
		return "Your session has expired. Please log in again. Redirecting..."
	case ProfileFetchError:
		return "Failed to load your profile. Reload to try again."
	case TasteFetchError:
		return "Failed to load your music taste data. Reload to try again."
	default:
		return ""
	}
}

// LoadState is one published state of a dashboard load.
//
// Profile and Taste are set only when Status is [Ready]; Kind and Err only when it is [Failed].
type LoadState struct {
	Generation uint64
	LoadID     string
	Status     Status
	Profile    *models.Profile
	Taste      *models.Snapshot
	Kind       ErrorKind
	Err        error
}

func loadingState(gen uint64, id string) LoadState {
	return LoadState{Generation: gen, LoadID: id, Status: Loading}
}

func readyState(gen uint64, id string, profile *models.Profile, taste *models.Snapshot) LoadState {
	return LoadState{Generation: gen, LoadID: id, Status: Ready, Profile: profile, Taste: taste}
}

func failedState(gen uint64, id string, kind ErrorKind, err error) LoadState {
	return LoadState{Generation: gen, LoadID: id, Status: Failed, Kind: kind, Err: err}
}
