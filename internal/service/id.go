package service

import (
	"fmt"

	"github.com/segmentio/ksuid"
)

// Human-presentable entity identifiers: a short type prefix over a
// KSUID, which keeps them time-sortable and collision-resistant under
// concurrent creation.

func NewBookingID() string {
	return fmt.Sprintf("BK-%s", ksuid.New().String())
}

func NewComplaintID() string {
	return fmt.Sprintf("CMP-%s", ksuid.New().String())
}

func NewCollectionID() string {
	return fmt.Sprintf("COL-%s", ksuid.New().String())
}

func NewHoardingID() string {
	return fmt.Sprintf("H-%s", ksuid.New().String())
}
