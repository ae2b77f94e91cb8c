// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/paramcron/cmd/paramcron/cli"
	"github.com/bureau-foundation/paramcron/lib/codec"
	"github.com/bureau-foundation/paramcron/lib/schedule"
)

func decodeCommand(env *Env) *cli.Command {
	var (
		globals    globalFlags
		diagnostic bool
		output     string
	)

	return &cli.Command{
		Name:    "decode",
		Summary: "Read CBOR fire records back",
		Description: `Read fire records written by "match --output cbor" or
"next --output cbor" and print them.

Each of those invocations writes one CBOR item holding its list of
fire records. Appending the output of several runs to one file gives a
CBOR sequence (RFC 8742); decode reads every item in order.

With --diagnostic, each item is printed in RFC 8949 diagnostic
notation instead, one line per item, without interpreting it as fire
records.`,
		Usage: "paramcron decode [flags] [FILE|-]",
		Examples: []cli.Example{
			{
				Description: "Show recorded firings as a table",
				Command:     "paramcron decode fires.cbor",
			},
			{
				Description: "Inspect the exact CBOR a match writes",
				Command:     "paramcron match --jobs jobs.jsonc -o cbor | paramcron decode --diagnostic",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			globals.register(flagSet)
			flagSet.BoolVar(&diagnostic, "diagnostic", false, "print CBOR diagnostic notation")
			flagSet.StringVarP(&output, "output", "o", "", "output format: text, json or cbor")
			return flagSet
		},
		Run: func(args []string) error {
			session, err := globals.open(env, "decode")
			if err != nil {
				return err
			}
			data, source, err := session.readInput(args)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return fmt.Errorf("%s: no CBOR data", source)
			}

			if diagnostic {
				return writeDiagnostic(env.Stdout, data, source)
			}

			format, err := session.outputFormat(output)
			if err != nil {
				return err
			}
			fires, err := decodeFires(data, source)
			if err != nil {
				return err
			}
			session.logger.Debug("fire records decoded", "source", source, "fires", len(fires))

			if done, err := session.emit(format, fires); done {
				return err
			}
			if len(fires) == 0 {
				fmt.Fprintf(env.Stderr, "No fire records in %s.\n", source)
				return nil
			}
			return writeFires(env.Stdout, fires, time.Time{})
		},
	}
}

// decodeFires reads a CBOR sequence of fire lists and concatenates
// them.
func decodeFires(data []byte, source string) ([]schedule.Fire, error) {
	fires := []schedule.Fire{}
	decoder := codec.NewDecoder(bytes.NewReader(data))
	for item := 1; ; item++ {
		var batch []schedule.Fire
		err := decoder.Decode(&batch)
		if errors.Is(err, io.EOF) {
			return fires, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: item %d: %w", source, item, err)
		}
		fires = append(fires, batch...)
	}
}

// writeDiagnostic prints each item of a CBOR sequence in diagnostic
// notation, one per line.
func writeDiagnostic(w io.Writer, data []byte, source string) error {
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			return fmt.Errorf("%s: at byte %d: %w", source, len(data)-len(remaining), err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}
	return nil
}
