package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorCompanyComplete signals that a company record already holds enough
// data to be treated as immutable by the create-or-merge flow.
var ErrorCompanyComplete = errors.New("company already fully populated")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
