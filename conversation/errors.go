package conversation

import "fmt"

// Step names the stage of a run that failed
type Step string

const (
	StepValidate        Step = "validate"
	StepSaveUserMessage Step = "save_user_message"
	StepFirstModelCall  Step = "first_model_call"
	StepSecondModelCall Step = "second_model_call"
	StepSaveBotMessage  Step = "save_bot_message"
	StepCountMessages   Step = "count_messages"
	StepFetchMessages   Step = "fetch_messages"
	StepClearMessages   Step = "clear_messages"
)

// Error codes, one per failing step
const (
	CodeValidation      = 4000
	CodeSaveUserMessage = 7001
	CodeFirstModelCall  = 7002
	CodeSaveBotMessage  = 7003
	CodeCountMessages   = 7004
	CodeFetchMessages   = 7005
	CodeSecondModelCall = 7006
	CodeClearMessages   = 7007
)

var stepCodes = map[Step]int{
	StepValidate:        CodeValidation,
	StepSaveUserMessage: CodeSaveUserMessage,
	StepFirstModelCall:  CodeFirstModelCall,
	StepSecondModelCall: CodeSecondModelCall,
	StepSaveBotMessage:  CodeSaveBotMessage,
	StepCountMessages:   CodeCountMessages,
	StepFetchMessages:   CodeFetchMessages,
	StepClearMessages:   CodeClearMessages,
}

// Error is returned when a run or a history operation fails.
// Code distinguishes the failing step, so callers can tell
// "your message was saved but we couldn't reply" from "nothing happened".
type Error struct {
	Code    int
	Step    Step
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %s", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessageSaved returns true if the user message was persisted before the failure
func (e *Error) UserMessageSaved() bool {
	switch e.Step {
	case StepFirstModelCall, StepSecondModelCall, StepSaveBotMessage:
		return true
	}
	return false
}

func newError(step Step, cause error, msg string) *Error {
	return &Error{
		Code:    stepCodes[step],
		Step:    step,
		Message: msg,
		Cause:   cause,
	}
}
