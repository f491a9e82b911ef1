package projectx

import "net/http"

// Outcome is the binary result of a submission.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Interpret maps a status code to an Outcome. Only 200 is a success; other 2xx codes,
// HTTP errors and the transport error sentinel are failures.
func Interpret(status int) Outcome {
	if status == http.StatusOK {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
