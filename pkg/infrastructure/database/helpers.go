package database

import "google.golang.org/protobuf/types/known/timestamppb"

// tsNanos converts an optional timestamp into a nullable column value.
func tsNanos(ts *timestamppb.Timestamp) interface{} {
	if ts == nil {
		return nil
	}
	return ts.AsTime().UnixNano()
}
