// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"filippo.io/age"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/hydra-tracker/hydra/cmd/hydra/cli"
	"github.com/hydra-tracker/hydra/lib/backup"
	"github.com/hydra-tracker/hydra/lib/intake"
)

// passphraseEnv supplies the backup passphrase non-interactively.
const passphraseEnv = "HYDRA_PASSPHRASE"

type backupSummary struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Entries   int       `json:"entries"`
	Encrypted bool      `json:"encrypted"`
}

type exportParams struct {
	appParams
	cli.JSONOutput
	Recipients []string `json:"recipients" flag:"recipient,r" desc:"encrypt to an age public key (repeatable)"`
	Passphrase bool     `json:"passphrase" flag:"passphrase" desc:"encrypt with a passphrase (from $HYDRA_PASSPHRASE or a prompt)"`
}

func exportCommand() *cli.Command {
	var params exportParams
	return &cli.Command{
		Name:    "export",
		Summary: "Write all entries and settings to a backup file",
		Description: `Write every entry and the settings to a single backup file:
CBOR, zstd-compressed and checksummed. With --recipient or --passphrase
the file is encrypted with age.`,
		Usage: "hydra export <path> [flags]",
		Examples: []cli.Example{
			{Description: "Plain backup", Command: "hydra export ~/hydra.backup"},
			{Description: "Encrypted to an age key", Command: "hydra export ~/hydra.backup --recipient age1..."},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("export", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return intake.Validation("usage: hydra export <path>")
			}
			recipients, err := exportRecipients(params)
			if err != nil {
				return err
			}
			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				document, err := backup.ExportFile(ctx, a.store, args[0], time.Now(), recipients...)
				if err != nil {
					return err
				}
				summary := backupSummary{
					Path:      args[0],
					CreatedAt: document.CreatedAt,
					Entries:   len(document.Entries),
					Encrypted: len(recipients) > 0,
				}
				if done, err := params.EmitJSON(summary); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "Exported %d entries to %s\n", summary.Entries, summary.Path)
				return nil
			})
		},
	}
}

func exportRecipients(params exportParams) ([]age.Recipient, error) {
	if params.Passphrase && len(params.Recipients) > 0 {
		return nil, intake.Validation("--passphrase cannot be combined with --recipient")
	}
	if params.Passphrase {
		passphrase, err := readPassphrase("Backup passphrase: ")
		if err != nil {
			return nil, err
		}
		recipient, err := backup.PassphraseRecipient(passphrase)
		if err != nil {
			return nil, err
		}
		return []age.Recipient{recipient}, nil
	}
	return backup.ParseRecipients(params.Recipients)
}

type importParams struct {
	appParams
	cli.JSONOutput
	IdentityFile string `json:"identity_file" flag:"identity,i" desc:"age identity file for encrypted backups"`
	Passphrase   bool   `json:"passphrase"    flag:"passphrase" desc:"decrypt with a passphrase (from $HYDRA_PASSPHRASE or a prompt)"`
	Replace      bool   `json:"replace"       flag:"replace"    desc:"confirm that all current entries and settings are replaced"`
}

func importCommand() *cli.Command {
	var params importParams
	return &cli.Command{
		Name:    "import",
		Summary: "Replace all data with the contents of a backup",
		Description: `Read a backup written by "hydra export" and replace every entry and
the settings with its contents. The backup is fully decoded and
verified before anything is written; --replace is required.`,
		Usage: "hydra import <path> --replace [flags]",
		Examples: []cli.Example{
			{Description: "Restore an age-encrypted backup", Command: "hydra import ~/hydra.backup --replace --identity ~/.config/age/key.txt"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("import", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return intake.Validation("usage: hydra import <path> --replace")
			}
			if !params.Replace {
				return intake.Validation("import replaces all current data; pass --replace to confirm")
			}
			identities, err := importIdentities(params)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer file.Close()

			return withApp(params.appParams, func(ctx context.Context, a *app) error {
				document, err := backup.Import(ctx, a.store, file, identities...)
				if errors.Is(err, backup.ErrIdentityRequired) {
					return fmt.Errorf("%w (use --identity or --passphrase)", err)
				}
				if err != nil {
					return err
				}
				a.notifyDaemon(ctx)
				summary := backupSummary{
					Path:      args[0],
					CreatedAt: document.CreatedAt,
					Entries:   len(document.Entries),
					Encrypted: len(identities) > 0,
				}
				if done, err := params.EmitJSON(summary); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "Imported %d entries from backup of %s\n",
					summary.Entries, summary.CreatedAt.Local().Format("2006-01-02 15:04"))
				return nil
			})
		},
	}
}

func importIdentities(params importParams) ([]age.Identity, error) {
	var identities []age.Identity
	if params.IdentityFile != "" {
		file, err := os.Open(params.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("opening identity file: %w", err)
		}
		defer file.Close()
		parsed, err := backup.ParseIdentities(file)
		if err != nil {
			return nil, err
		}
		identities = append(identities, parsed...)
	}
	if params.Passphrase {
		passphrase, err := readPassphrase("Backup passphrase: ")
		if err != nil {
			return nil, err
		}
		identity, err := backup.PassphraseIdentity(passphrase)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, nil
}

// readPassphrase takes the passphrase from $HYDRA_PASSPHRASE, or
// prompts on the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	if passphrase := os.Getenv(passphraseEnv); passphrase != "" {
		return passphrase, nil
	}
	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		return "", intake.Validation("no terminal to prompt for a passphrase; set %s", passphraseEnv)
	}
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(passphrase) == 0 {
		return "", intake.Validation("empty passphrase")
	}
	return string(passphrase), nil
}
