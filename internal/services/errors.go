// Package services defines the business logic for survey submissions, rollup
// aggregation, and dashboard reconciliation. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

var (
	// ErrSurveyNotFound indicates that the requested survey does not exist
	// or has no questions to report on.
	ErrSurveyNotFound = errors.New("survey not found")

	// ErrSurveyInactive is returned when a submission targets a survey whose
	// activation flag is off. Handlers map it to the same 404 as a missing
	// survey so inactive surveys are not enumerable.
	ErrSurveyInactive = errors.New("survey inactive")

	// ErrNoAnswers is returned when a submission carries an empty answer set.
	ErrNoAnswers = errors.New("at least one answer is required")

	// ErrConsentRequired is returned when a submission lacks the respondent's
	// consent to data collection.
	ErrConsentRequired = errors.New("consent is required")

	// ErrInvalidEmail is returned when the optional respondent email is
	// present but not a parseable address.
	ErrInvalidEmail = errors.New("respondent email is invalid")
)
