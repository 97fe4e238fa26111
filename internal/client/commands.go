// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-zk-vault/internal/app"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zkvault",
		Short: "zkvault - zero-knowledge key management for encrypted messages",
		Long: `zkvault keeps a data key that only you can unwrap: with your password or
with one of your one-time recovery codes. The bundle store never sees either.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "JSON config file path")
	root.PersistentFlags().Int64VarP(&a.userID, "user", "u", 0, "user id (defaults to the token subject or the local user)")

	root.AddCommand(
		a.versionCommand(),
		a.statusCommand(),
		a.setupCommand(),
		a.unlockCommand(),
		a.recoverCommand(),
		a.resetPasswordCommand(),
		a.passwdCommand(),
		a.codesCommand(),
		a.encryptCommand(),
		a.decryptCommand(),
		a.sessionCommand(),
	)
	return root
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no config or store is needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, a.build.String())
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether encryption is set up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.services.Vault.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			a.printStatus(st)

			if st.Status == lifecycle.StatusLocked {
				remaining, err := a.services.Vault.RemainingRecoveryCodes(cmd.Context())
				if err != nil {
					return err
				}
				a.printRemaining(remaining)
			}
			return nil
		},
	}
}

func (a *App) setupCommand() *cobra.Command {
	var copyCodes bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the data key and your recovery codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.newPassword("Encryption password: ")
			if err != nil {
				return err
			}

			codes, err := a.services.Vault.Setup(cmd.Context(), password)
			if err != nil {
				return err
			}

			a.success(app.MsgSetupComplete)
			a.printCodes(codes, copyCodes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyCodes, "copy", false, "also copy the recovery codes to the clipboard")
	return cmd
}

func (a *App) unlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check your password against the stored key bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.unlock(cmd); err != nil {
				return err
			}
			a.success(app.MsgUnlocked)
			a.printRemaining(a.services.Vault.State().RemainingRecoveryCodes)
			return nil
		},
	}
}

func (a *App) recoverCommand() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Unlock with a one-time recovery code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.recoveryCode(code)
			if err != nil {
				return err
			}
			if err = a.services.Vault.Recover(cmd.Context(), value); err != nil {
				return err
			}
			a.success(app.MsgUnlocked)
			a.printRemaining(a.services.Vault.State().RemainingRecoveryCodes)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "recovery code (prompted when empty)")
	return cmd
}

func (a *App) resetPasswordCommand() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a recovery code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.recoveryCode(code)
			if err != nil {
				return err
			}
			password, err := a.newPassword("New encryption password: ")
			if err != nil {
				return err
			}
			if err = a.services.Vault.ResetPassword(cmd.Context(), value, password); err != nil {
				return err
			}
			a.success(app.MsgPasswordReset)
			a.printRemaining(a.services.Vault.State().RemainingRecoveryCodes)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "recovery code (prompted when empty)")
	return cmd
}

func (a *App) passwdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your encryption password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := a.secret("Current password: ")
			if err != nil {
				return err
			}
			password, err := a.newPassword("New encryption password: ")
			if err != nil {
				return err
			}
			if err = a.services.Vault.ChangePassword(cmd.Context(), old, password); err != nil {
				return err
			}
			a.success(app.MsgPasswordChanged)
			return nil
		},
	}
}

func (a *App) codesCommand() *cobra.Command {
	codes := &cobra.Command{
		Use:   "codes",
		Short: "Manage recovery codes",
	}

	remaining := &cobra.Command{
		Use:   "remaining",
		Short: "Show how many recovery codes are left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.services.Vault.RemainingRecoveryCodes(cmd.Context())
			if err != nil {
				return err
			}
			a.printRemaining(n)
			return nil
		},
	}

	var copyCodes bool
	regenerate := &cobra.Command{
		Use:   "regenerate",
		Short: "Replace all recovery codes with a new set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.secret("Encryption password: ")
			if err != nil {
				return err
			}
			newCodes, err := a.services.Vault.RegenerateRecoveryCodes(cmd.Context(), password)
			if err != nil {
				return err
			}
			a.warn(app.MsgOldCodesInvalid)
			a.printCodes(newCodes, copyCodes)
			return nil
		},
	}
	regenerate.Flags().BoolVar(&copyCodes, "copy", false, "also copy the recovery codes to the clipboard")

	codes.AddCommand(remaining, regenerate)
	return codes
}

func (a *App) encryptCommand() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with your data key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return errEmptyInput
			}
			if err := a.unlock(cmd); err != nil {
				return err
			}
			blob, err := a.services.Vault.EncryptMessage(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, blob)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "plaintext to encrypt")
	return cmd
}

func (a *App) decryptCommand() *cobra.Command {
	var blob, conversation string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a message blob",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(blob) == "" {
				return errEmptyInput
			}
			if err := a.unlock(cmd); err != nil {
				return err
			}
			return a.printDecrypted(a.services.Vault.DecryptMessage(cmd.Context(), conversation, blob))
		},
	}
	cmd.Flags().StringVarP(&blob, "blob", "b", "", "encrypted blob")
	cmd.Flags().StringVar(&conversation, "context", "", "conversation the blob belongs to")
	return cmd
}

// unlock prompts for the password and unlocks the vault.
func (a *App) unlock(cmd *cobra.Command) error {
	password, err := a.secret("Encryption password: ")
	if err != nil {
		return err
	}
	return a.services.Vault.Unlock(cmd.Context(), password)
}

func (a *App) secret(prompt string) (string, error) {
	s, err := a.prompter.Secret(prompt)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errEmptyInput
	}
	return s, nil
}

// newPassword asks twice.
func (a *App) newPassword(prompt string) (string, error) {
	password, err := a.secret(prompt)
	if err != nil {
		return "", err
	}
	confirm, err := a.prompter.Secret("Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errPasswordsDoNotMatch
	}
	return password, nil
}

func (a *App) recoveryCode(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return a.secret("Recovery code: ")
}
