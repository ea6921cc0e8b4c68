package prompt

import (
	"errors"
	"fmt"
)

const (
	confirmationPromptTemplateConstant   = "%s Do you want to proceed? [y/N]: "
	prompterNotConfiguredMessageConstant = "confirmation prompter not configured"
	confirmationErrorTemplateConstant    = "unable to read confirmation: %w"
	answerUnsetLabelConstant             = "unset"
	answerYesLabelConstant               = "yes"
	answerNoLabelConstant                = "no"
)

// ErrPrompterNotConfigured indicates that a confirmation was required but no prompter is available.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessageConstant)

// Answer records the user's decision for a confirmation, which may not have been asked yet.
type Answer int

// Answer values.
const (
	AnswerUnset Answer = iota
	AnswerYes
	AnswerNo
)

// AnswerFromBool converts a confirmation outcome into an Answer.
func AnswerFromBool(confirmed bool) Answer {
	if confirmed {
		return AnswerYes
	}
	return AnswerNo
}

// IsSet reports whether the user has already decided.
func (answer Answer) IsSet() bool {
	return answer == AnswerYes || answer == AnswerNo
}

// Confirmed reports whether the answer is affirmative.
func (answer Answer) Confirmed() bool {
	return answer == AnswerYes
}

// String returns a label suitable for logs.
func (answer Answer) String() string {
	switch answer {
	case AnswerYes:
		return answerYesLabelConstant
	case AnswerNo:
		return answerNoLabelConstant
	default:
		return answerUnsetLabelConstant
	}
}

// Session resolves answers for a single command invocation.
type Session struct {
	prompter  ConfirmationPrompter
	assumeYes bool
}

// NewSession constructs a Session. When assumeYes is true the prompter is never consulted.
func NewSession(prompter ConfirmationPrompter, assumeYes bool) *Session {
	return &Session{prompter: prompter, assumeYes: assumeYes}
}

// Resolve returns the existing answer when set; otherwise it asks the user once.
func (session *Session) Resolve(answer Answer, message string) (Answer, error) {
	if answer.IsSet() {
		return answer, nil
	}
	if session == nil {
		return AnswerUnset, ErrPrompterNotConfigured
	}
	if session.assumeYes {
		return AnswerYes, nil
	}
	if session.prompter == nil {
		return AnswerUnset, ErrPrompterNotConfigured
	}

	confirmed, confirmError := session.prompter.Confirm(fmt.Sprintf(confirmationPromptTemplateConstant, message))
	if confirmError != nil {
		return AnswerUnset, fmt.Errorf(confirmationErrorTemplateConstant, confirmError)
	}
	return AnswerFromBool(confirmed), nil
}
