// SPDX-License-Identifier: MIT
// Copyright (c) 2025 dnp3 contributors.

// Command dnp3cat decodes hex-encoded DNP3 application fragments and
// prints the objects they carry. Fragments are read from the arguments,
// or line by line from stdin when no argument is given.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lucassm/dnp3/apdu"
	"github.com/lucassm/dnp3/dlog"
	"github.com/lucassm/dnp3/pcap"
)

var (
	withHeader bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dnp3cat [hex fragment]...",
	Short: "Decode DNP3 application-layer fragments",
	Long: `dnp3cat parses DNP3 object headers from hex input and prints the decoded
measurements. Input is the object portion of an application fragment; with
--app-header the fragment starts at the application control octet and the
function code (plus IIN for responses) is printed as well.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&withHeader, "app-header", false, "input starts at the application control octet")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parser diagnostics")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if len(args) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			if err := decodeFragment(line, logger); err != nil {
				return err
			}
		}
		return sc.Err()
	}

	for _, arg := range args {
		if err := decodeFragment(arg, logger); err != nil {
			return err
		}
	}
	return nil
}

func newLogger() *dlog.Logger {
	if !verbose {
		return nil
	}
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	logger := dlog.NewLoggerWith(dlog.NewLogrusProvider(l))
	logger.SetLevel(dlog.LevelDebug)
	return logger
}

func decodeFragment(input string, logger *dlog.Logger) error {
	raw, err := hex.DecodeString(strings.Map(dropSpacing, input))
	if err != nil {
		return fmt.Errorf("bad hex input: %w", err)
	}

	objects := raw
	if withHeader {
		if len(raw) < 2 {
			return fmt.Errorf("fragment shorter than the application header")
		}
		fc := raw[1]
		fmt.Printf("function: %s\n", pcap.FunctionName(fc))
		objects = raw[2:]
		if fc >= pcap.FuncResponse {
			if len(objects) < 2 {
				return fmt.Errorf("response without IIN octets")
			}
			fmt.Printf("IIN: 0x%02x%02x\n", objects[1], objects[0])
			objects = objects[2:]
		}
	}

	if err := apdu.ParseTwoPass(objects, printHandler{}, logger); err != nil {
		return err
	}
	return nil
}

func dropSpacing(r rune) rune {
	switch r {
	case ' ', '\t', ':', ',':
		return -1
	}
	return r
}

// printHandler writes one line per header and one per object; for IIN
// headers only the set bits get a line.
type printHandler struct{}

func (printHandler) AllObjects(rec apdu.HeaderRecord) error {
	fmt.Printf("%v\n", rec)
	return nil
}

func (printHandler) OnIIN(rec apdu.HeaderRecord, iin *apdu.IndexedSeq[bool]) error {
	fmt.Printf("%v (%d bits)\n", rec, iin.Len())
	iin.Do(func(v apdu.IndexedValue[bool]) {
		if v.Value {
			fmt.Printf("  bit %d set\n", v.Index)
		}
	})
	return nil
}

func (sf printHandler) OnRange(rec apdu.HeaderRecord, seq apdu.Sequence) error {
	return sf.objects(rec, seq)
}

func (sf printHandler) OnCount(rec apdu.HeaderRecord, seq apdu.Sequence) error {
	return sf.objects(rec, seq)
}

func (sf printHandler) OnIndexPrefix(rec apdu.HeaderRecord, seq apdu.Sequence) error {
	return sf.objects(rec, seq)
}

func (printHandler) objects(rec apdu.HeaderRecord, seq apdu.Sequence) error {
	fmt.Printf("%v (%d objects)\n", rec, seq.Len())
	switch s := seq.(type) {
	case *apdu.IndexedSeq[apdu.Binary]:
		s.Do(func(v apdu.IndexedValue[apdu.Binary]) {
			printTimed(v.Index, fmt.Sprintf("%t [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.BinaryOutputStatus]:
		s.Do(func(v apdu.IndexedValue[apdu.BinaryOutputStatus]) {
			printTimed(v.Index, fmt.Sprintf("%t [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.DoubleBitBinary]:
		s.Do(func(v apdu.IndexedValue[apdu.DoubleBitBinary]) {
			printTimed(v.Index, fmt.Sprintf("%v [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.Counter]:
		s.Do(func(v apdu.IndexedValue[apdu.Counter]) {
			printTimed(v.Index, fmt.Sprintf("%d [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.FrozenCounter]:
		s.Do(func(v apdu.IndexedValue[apdu.FrozenCounter]) {
			printTimed(v.Index, fmt.Sprintf("%d [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.Analog]:
		s.Do(func(v apdu.IndexedValue[apdu.Analog]) {
			printTimed(v.Index, fmt.Sprintf("%g [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.AnalogOutputStatus]:
		s.Do(func(v apdu.IndexedValue[apdu.AnalogOutputStatus]) {
			printTimed(v.Index, fmt.Sprintf("%g [%v]", v.Value.Value, v.Value.Flags), v.Value.Time)
		})
	case *apdu.IndexedSeq[apdu.AnalogCommand]:
		s.Do(func(v apdu.IndexedValue[apdu.AnalogCommand]) {
			fmt.Printf("  %5d: %g status=%v\n", v.Index, v.Value.Value, v.Value.Status)
		})
	case *apdu.IndexedSeq[apdu.ControlRelayOutputBlock]:
		s.Do(func(v apdu.IndexedValue[apdu.ControlRelayOutputBlock]) {
			fmt.Printf("  %5d: code=0x%02x count=%d on=%dms off=%dms status=%v\n",
				v.Index, byte(v.Value.Code), v.Value.Count, v.Value.OnTime, v.Value.OffTime, v.Value.Status)
		})
	case *apdu.IndexedSeq[apdu.OctetString]:
		s.Do(func(v apdu.IndexedValue[apdu.OctetString]) {
			fmt.Printf("  %5d: %s\n", v.Index, hex.EncodeToString(v.Value.Data))
		})
	case *apdu.IndexedSeq[apdu.TimeAndInterval]:
		s.Do(func(v apdu.IndexedValue[apdu.TimeAndInterval]) {
			fmt.Printf("  %5d: %v every %d (units %d)\n", v.Index, v.Value.Time, v.Value.Interval, v.Value.Units)
		})
	case *apdu.FlatSeq[apdu.DNP3Time]:
		s.Do(func(v apdu.DNP3Time) {
			fmt.Printf("  %v\n", v)
		})
	case *apdu.FlatSeq[uint16]:
		s.Do(func(v uint16) {
			fmt.Printf("  %d\n", v)
		})
	}
	return nil
}

func printTimed(index uint16, value string, t apdu.DNP3Time) {
	if t == 0 {
		fmt.Printf("  %5d: %s\n", index, value)
		return
	}
	fmt.Printf("  %5d: %s @%v\n", index, value, t)
}
