// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Prompter asks the user for input.
type Prompter interface {
	// Secret reads a value without echoing it when the input is a terminal.
	Secret(prompt string) (string, error)
	Line(prompt string) (string, error)
}

// Clipboard receives exported recovery codes.
type Clipboard interface {
	WriteAll(text string) error
}
