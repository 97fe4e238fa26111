package client

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/MKhiriev/go-zk-vault/internal/app"
	"github.com/MKhiriev/go-zk-vault/internal/lifecycle"
	"github.com/MKhiriev/go-zk-vault/internal/resilience"
)

func (a *App) success(msg string) {
	fmt.Fprintln(a.out, color.GreenString("✓ ")+msg)
}

func (a *App) warn(msg string) {
	fmt.Fprintln(a.out, color.YellowString("! ")+msg)
}

var statusText = map[lifecycle.Status]string{
	lifecycle.StatusNoEncryption: "encryption is not set up",
	lifecycle.StatusLocked:       "locked",
	lifecycle.StatusUnlocked:     "unlocked",
	lifecycle.StatusError:        "error",
}

func (a *App) printStatus(st lifecycle.State) {
	text, ok := statusText[st.Status]
	if !ok {
		text = string(st.Status)
	}
	fmt.Fprintf(a.out, "Status: %s\n", color.CyanString(text))
	if st.Err != nil {
		a.printError(st.Err)
	}
}

func (a *App) printRemaining(remaining int) {
	fmt.Fprintf(a.out, "Recovery codes remaining: %d\n", remaining)
	if notice := app.RecoveryCodesNotice(remaining); notice != "" {
		a.warn(notice)
	}
}

// printCodes shows freshly generated codes. This is the only time they are
// ever displayed.
func (a *App) printCodes(codes []string, copyCodes bool) {
	fmt.Fprintln(a.out)
	bold := color.New(color.Bold)
	for i, code := range codes {
		fmt.Fprintf(a.out, "  %2d. %s\n", i+1, bold.Sprint(code))
	}
	fmt.Fprintln(a.out)
	a.warn(app.MsgCodesWarning)

	if !copyCodes {
		return
	}
	if err := a.clipboard.WriteAll(strings.Join(codes, "\n")); err != nil {
		a.log.Err(err).Str("func", "*App.printCodes").Msg("error copying recovery codes")
		a.warn(app.MsgCopyFailed)
		return
	}
	a.success(app.MsgCodesCopied)
}

// printDecrypted prints the plaintext, or returns the classified failure.
func (a *App) printDecrypted(res resilience.DecryptionResult) error {
	if !res.OK() {
		if res.Err == nil {
			return fmt.Errorf("decryption failed: %s", res.Status)
		}
		return res.Err
	}
	if res.Status == resilience.StatusPlaintext {
		a.warn("input is not encrypted, shown as is")
	}
	fmt.Fprintln(a.out, res.Value)
	return nil
}
