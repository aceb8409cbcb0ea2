package usecase

import "time"

// FailedMessage is exported for testing
var FailedMessage = failedMessage

// Classify is exported for testing
var Classify = classify

// Visible is exported for testing
var Visible = visible

// SetClock replaces the time source of the todo use case
func (uc *TodoUseCase) SetClock(now func() time.Time) {
	uc.now = now
}
