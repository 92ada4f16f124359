package contracts

type Status string

const (
	StatusNegotiating           Status = "negotiating"
	StatusSignedAndActive       Status = "signed_and_active"
	StatusPaused                Status = "paused"
	StatusCompletedSuccessfully Status = "completed_successfully"
	StatusTerminated            Status = "terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNegotiating, StatusSignedAndActive, StatusPaused,
		StatusCompletedSuccessfully, StatusTerminated:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompletedSuccessfully || s == StatusTerminated
}

// allowed[from] lists the statuses a request may target from "from".
var allowed = map[Status][]Status{
	StatusNegotiating:     {StatusSignedAndActive, StatusTerminated},
	StatusSignedAndActive: {StatusPaused, StatusCompletedSuccessfully, StatusTerminated},
	StatusPaused:          {StatusSignedAndActive, StatusCompletedSuccessfully, StatusTerminated},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}
