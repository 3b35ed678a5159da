package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// PromptForUsername asks for the trader's username.
func PromptForUsername() (string, error) {
	var username string
	prompt := &survey.Input{
		Message: "Enter your trading username:",
		Help:    "New usernames get a fresh account with the starting capital",
	}

	err := survey.AskOne(prompt, &username, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if len(str) == 0 {
			return fmt.Errorf("username cannot be empty")
		}
		if len(str) > 30 {
			return fmt.Errorf("username too long (max 30 characters)")
		}
		if !usernamePattern.MatchString(str) {
			return fmt.Errorf("use letters, numbers, hyphens and underscores only")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(username), nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false
	}
	return confirmed
}
