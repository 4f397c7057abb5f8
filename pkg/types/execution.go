package types

import "google.golang.org/protobuf/types/known/timestamppb"

// ExecutionStatus is the lifecycle state of a function execution.
type ExecutionStatus int32

const (
	ExecutionStatusUnspecified ExecutionStatus = iota
	ExecutionStatusPending
	ExecutionStatusStarted
	ExecutionStatusSuccess
	ExecutionStatusFailed
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionStatusPending:
		return "STATUS_PENDING"
	case ExecutionStatusStarted:
		return "STATUS_STARTED"
	case ExecutionStatusSuccess:
		return "STATUS_SUCCESS"
	case ExecutionStatusFailed:
		return "STATUS_FAILED"
	default:
		return "STATUS_UNSPECIFIED"
	}
}

// ExecutionRecord is one row of the executions log.
type ExecutionRecord struct {
	ExecutionID  string
	Service      string
	Status       ExecutionStatus
	Timestamp    *timestamppb.Timestamp
	StartTime    *timestamppb.Timestamp
	EndTime      *timestamppb.Timestamp
	UserID       *string
	TriggerType  string
	InputsJSON   *string
	OutputsJSON  *string
	ErrorMessage *string
}
