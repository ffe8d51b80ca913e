package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xoplog/xopbunyan-go/xopbunyan"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"
)

// coreOrder is the order that core keys must appear in
var coreOrder = []string{
	xopbunyan.VersionKey,
	xopbunyan.NameKey,
	xopbunyan.MessageKey,
	xopbunyan.LevelKey,
	xopbunyan.HostnameKey,
	xopbunyan.PIDKey,
	xopbunyan.TimeKey,
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "verify that each line is a Bunyan record",
		Long: "check reads Bunyan lines from the files named, or from standard input, " +
			"and reports lines that are not JSON objects starting with the core Bunyan keys.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var bad, total int
			run := func(name string, r io.Reader) error {
				t, b, err := checkStream(name, r, cmd.ErrOrStderr())
				total += t
				bad += b
				return err
			}
			if len(args) == 0 {
				if err := run("stdin", cmd.InOrStdin()); err != nil {
					return err
				}
			}
			for _, fn := range args {
				fh, err := os.Open(fn)
				if err != nil {
					return errors.Wrap(err, "open")
				}
				err = run(fn, fh)
				_ = fh.Close()
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d lines, %d invalid\n", total, bad)
			if bad != 0 {
				return errors.Errorf("%d invalid lines", bad)
			}
			return nil
		},
	}
}

func checkStream(name string, r io.Reader, report io.Writer) (total int, bad int, err error) {
	var p fastjson.Parser
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		total++
		if err := checkLine(&p, scanner.Bytes()); err != nil {
			bad++
			fmt.Fprintf(report, "%s:%d: %s\n", name, total, err)
		}
	}
	return total, bad, errors.Wrapf(scanner.Err(), "read %s", name)
}

func checkLine(p *fastjson.Parser, line []byte) error {
	v, err := p.ParseBytes(line)
	if err != nil {
		return errors.Wrap(err, "not JSON")
	}
	o, err := v.Object()
	if err != nil {
		return errors.New("not a JSON object")
	}
	var keys []string
	o.Visit(func(k []byte, _ *fastjson.Value) {
		if len(keys) < len(coreOrder) {
			keys = append(keys, string(k))
		}
	})
	for i, want := range coreOrder {
		if i >= len(keys) || keys[i] != want {
			return errors.Errorf("key %d should be %q", i+1, want)
		}
	}
	for _, k := range []string{xopbunyan.VersionKey, xopbunyan.LevelKey, xopbunyan.PIDKey} {
		if _, err := v.Get(k).Int(); err != nil {
			return errors.Errorf("%s is not an integer", k)
		}
	}
	for _, k := range []string{xopbunyan.NameKey, xopbunyan.MessageKey, xopbunyan.HostnameKey} {
		if v.Get(k).Type() != fastjson.TypeString {
			return errors.Errorf("%s is not a string", k)
		}
	}
	ts, err := v.Get(xopbunyan.TimeKey).StringBytes()
	if err != nil {
		return errors.Errorf("%s is not a string", xopbunyan.TimeKey)
	}
	if _, err := time.Parse(time.RFC3339Nano, string(ts)); err != nil {
		return errors.Wrap(err, "bad time")
	}
	return nil
}
