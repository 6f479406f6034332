// Copyright 2024 The Mason Authors.

// Description: Interactively prompts for a brick's declared variables
// that the caller didn't supply via flags, using AlecAivazis/survey/v2
// the way the teacher pack's CLI tooling prompts for missing arguments.
// Package prompt is a standalone collaborator: the core (pkg/generator)
// never imports it, it only consumes whatever vars map the CLI layer
// assembles.
package prompt

import (
	"strconv"

	"github.com/AlecAivazis/survey/v2"

	"github.com/mason-tool/mason/pkg/brick"
)

// FillMissing prompts for every declared variable in vars that is neither
// already set in existing nor given a default, using each VariableDef's
// Prompt text (or its name, if no prompt was declared) and Values for enum
// types. A variable with a default takes that default without a prompt.
func FillMissing(vars []brick.VariableDef, existing map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(existing))
	for k, v := range existing {
		result[k] = v
	}

	for _, v := range vars {
		if _, ok := result[v.Name]; ok {
			continue
		}
		if v.HasDefault() {
			result[v.Name] = v.Default
			continue
		}

		message := v.Prompt
		if message == "" {
			message = v.Name
		}

		answer, err := ask(v, message)
		if err != nil {
			return nil, err
		}
		result[v.Name] = answer
	}

	return result, nil
}

func ask(v brick.VariableDef, message string) (any, error) {
	switch v.Type {
	case brick.VariableTypeBoolean:
		var answer bool
		err := survey.AskOne(&survey.Confirm{Message: message}, &answer)
		return answer, err
	case brick.VariableTypeEnum:
		var answer string
		err := survey.AskOne(&survey.Select{Message: message, Options: v.Values}, &answer)
		return answer, err
	case brick.VariableTypeNumber:
		var raw string
		if err := survey.AskOne(&survey.Input{Message: message}, &raw); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		var answer string
		err := survey.AskOne(&survey.Input{Message: message}, &answer)
		return answer, err
	}
}
