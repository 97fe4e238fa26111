// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-zk-vault/internal/app"
	"github.com/MKhiriev/go-zk-vault/internal/workers"
)

const sessionHelp = `commands:
  encrypt <text>             encrypt text
  decrypt [context] <blob>   decrypt a blob, optionally for a conversation
  status                     show the session state
  codes                      show remaining recovery codes
  lock                       forget the key
  unlock                     unlock with your password
  recover                    unlock with a recovery code
  quit                       leave the session`

func (a *App) sessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Keep the key unlocked for several operations",
		Long: `Starts a line-oriented session. The key stays in memory until you lock it,
leave the session, or the session has been idle for SESSION_IDLE_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.unlock(cmd); err != nil {
				return err
			}
			a.success(app.MsgUnlocked)
			a.printRemaining(a.services.Vault.State().RemainingRecoveryCodes)

			ctx, cancel := context.WithCancel(cmd.Context())
			bg := workers.NewWorkers(
				workers.NewAutoLockWorker(a.services.Session, func() { a.warn(app.MsgAutoLocked) }, a.log),
				workers.NewBreakerJanitor(a.services.Breakers, a.cfg.Resilience.JanitorInterval, a.cfg.Resilience.IdleTTL, a.log),
			)
			bg.Run(ctx)
			defer func() {
				cancel()
				bg.Wait()
			}()

			return a.sessionLoop(cmd)
		},
	}
}

func (a *App) sessionLoop(cmd *cobra.Command) error {
	for {
		line, err := a.prompter.Line("zkvault> ")
		if errors.Is(err, ErrNoInput) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := a.sessionLine(cmd, line)
		if err != nil {
			a.printError(err)
		}
		if quit {
			return nil
		}
	}
}

// sessionLine runs one command of the session and reports whether the
// session should end.
func (a *App) sessionLine(cmd *cobra.Command, line string) (bool, error) {
	ctx := cmd.Context()
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	vault := a.services.Vault

	switch fields[0] {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(a.out, sessionHelp)

	case "status":
		a.printStatus(vault.State())

	case "lock":
		vault.Lock()
		a.success(app.MsgLocked)

	case "unlock":
		if err := a.unlock(cmd); err != nil {
			return false, err
		}
		a.success(app.MsgUnlocked)

	case "recover":
		code, err := a.secret("Recovery code: ")
		if err != nil {
			return false, err
		}
		if err = vault.Recover(ctx, code); err != nil {
			return false, err
		}
		a.success(app.MsgUnlocked)
		a.printRemaining(vault.State().RemainingRecoveryCodes)

	case "codes":
		n, err := vault.RemainingRecoveryCodes(ctx)
		if err != nil {
			return false, err
		}
		a.printRemaining(n)

	case "encrypt":
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if text == "" {
			return false, errEmptyInput
		}
		blob, err := vault.EncryptMessage(ctx, text)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(a.out, blob)

	case "decrypt":
		var conversation, blob string
		switch len(fields) {
		case 2:
			blob = fields[1]
		case 3:
			conversation, blob = fields[1], fields[2]
		default:
			return false, errEmptyInput
		}
		return false, a.printDecrypted(vault.DecryptMessage(ctx, conversation, blob))

	default:
		fmt.Fprintln(a.out, app.MsgUnknownCommand)
	}
	return false, nil
}
