package mover

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// destructiveConfirmPhrase must be typed exactly before a commit-mode local
// move erases the source files.
const destructiveConfirmPhrase = "erase originals"

// PhraseFunc solicits a typed confirmation phrase from the user.
type PhraseFunc func(prompt string) (string, error)

// askPhrase is the interactive PhraseFunc. An interrupted or empty prompt
// yields an empty answer, which callers treat as a mismatch.
func askPhrase(prompt string) (string, error) {
	answer := ""
	_ = survey.AskOne(&survey.Input{Message: prompt}, &answer)
	return strings.TrimSpace(answer), nil
}
