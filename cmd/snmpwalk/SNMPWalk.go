// PowerSNMP - SNMP library for Go
// Автор: Волков Олег, ООО "Пауэр Си"
// Author: Volkov Oleg, PowerC LLC
// License: MIT (commercial version with support available)
// Лицензия: MIT (доступна коммерческая версия с поддержкой)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	PowerSNMP "github.com/OlegPowerC/powersnmp"
	"github.com/OlegPowerC/powersnmp/internal/udptransport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	community   string
	snmpVersion string
	port        int
	timeout     time.Duration
	retries     int
	maxRep      int
	tableMode   bool
	adaptive    bool
	rawToo      bool
	debug       bool
)

// wellKnown lets the CLI accept a few MIB-2 names instead of dotted OIDs.
var wellKnown = map[string]PowerSNMP.OID{
	"mib-2":       PowerSNMP.MustParseOID("1.3.6.1.2.1"),
	"system":      PowerSNMP.MustParseOID("1.3.6.1.2.1.1"),
	"sysDescr":    PowerSNMP.MustParseOID("1.3.6.1.2.1.1.1"),
	"sysObjectID": PowerSNMP.MustParseOID("1.3.6.1.2.1.1.2"),
	"sysUpTime":   PowerSNMP.MustParseOID("1.3.6.1.2.1.1.3"),
	"sysName":     PowerSNMP.MustParseOID("1.3.6.1.2.1.1.5"),
	"interfaces":  PowerSNMP.MustParseOID("1.3.6.1.2.1.2"),
	"ifTable":     PowerSNMP.MustParseOID("1.3.6.1.2.1.2.2"),
	"ifDescr":     PowerSNMP.MustParseOID("1.3.6.1.2.1.2.2.1.2"),
	"ifXTable":    PowerSNMP.MustParseOID("1.3.6.1.2.1.31.1.1"),
}

var rootCmd = &cobra.Command{
	Use:   "snmpwalk [flags] host [oid]",
	Short: "Walk an SNMPv1/v2c MIB subtree",
	Example: `  snmpwalk -c public 192.0.2.1 system
  snmpwalk -v 1 -c private 192.0.2.1 1.3.6.1.2.1.2.2.1.2
  snmpwalk --table 192.0.2.1 ifTable`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWalk,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&community, "community", "c", PowerSNMP.SNMP_DEFAULTCOMMUNITY, "community string")
	f.StringVarP(&snmpVersion, "version", "v", "2c", "SNMP version: 1 or 2c")
	f.IntVarP(&port, "port", "p", PowerSNMP.SNMP_DEFAULTPORT, "agent UDP port")
	f.DurationVar(&timeout, "timeout", 800*time.Millisecond, "timeout of the first attempt")
	f.IntVar(&retries, "retries", 5, "attempts per request")
	f.IntVar(&maxRep, "max-rep", 50, "GETBULK max-repetitions")
	f.BoolVar(&tableMode, "table", false, "print the subtree as a table (rows by index)")
	f.BoolVar(&adaptive, "adaptive", false, "adapt max-repetitions to agent tooBig answers")
	f.BoolVarP(&rawToo, "raw", "r", false, "print raw value bytes too")
	f.BoolVar(&debug, "debug", false, "debug logging to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, PowerSNMP.FormatErr(err))
		if hints, herr := PowerSNMP.GetRecoverySuggestions(err); herr == nil {
			for _, h := range hints {
				fmt.Fprintln(os.Stderr, "  -", h)
			}
		}
		os.Exit(1)
	}
}

func runWalk(cmd *cobra.Command, args []string) error {
	version, err := PowerSNMP.ParseVersion(snmpVersion)
	if err != nil {
		return err
	}
	rootName := "mib-2"
	if len(args) > 1 {
		rootName = args[1]
	}
	oids, err := PowerSNMP.ResolveOIDs(PowerSNMP.NewStaticResolver(wellKnown), rootName)
	if err != nil {
		return err
	}
	root := oids[0]

	logger := zap.NewNop()
	if debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	client, err := PowerSNMP.NewClient(udptransport.New(udptransport.WithLogger(logger)),
		PowerSNMP.WithLogger(logger))
	if err != nil {
		return err
	}
	target := PowerSNMP.Target{
		Address:        args[0],
		Port:           port,
		Community:      community,
		Version:        version,
		Timeout:        timeout,
		Retries:        retries,
		MaxRepetitions: maxRep,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelWalk := context.WithTimeout(ctx, 300*time.Second)
	defer cancelWalk()

	var opts []PowerSNMP.WalkOption
	if adaptive {
		opts = append(opts, PowerSNMP.WithAdaptiveRepetitions())
	}
	if tableMode {
		return printTable(ctx, cmd, client, target, root, opts)
	}

	ch := make(chan PowerSNMP.ChanDataWErr, 3000)
	go client.WalkStream(ctx, target, root, ch, opts...)
	out := cmd.OutOrStdout()
	for item := range ch {
		if item.Error != nil {
			return item.Error
		}
		if !item.ValidData {
			continue
		}
		vb := item.Data
		if rawToo {
			fmt.Fprintln(out, vb.OID, "=", PowerSNMP.Convert_ClassTag_to_String(vb.Value)+":", PowerSNMP.Convert_Variable_To_String(vb.Value), vb.Value.Value)
		} else {
			fmt.Fprintln(out, vb.OID, "=", PowerSNMP.Convert_ClassTag_to_String(vb.Value)+":", PowerSNMP.Convert_Variable_To_String(vb.Value))
		}
	}
	return nil
}

func printTable(ctx context.Context, cmd *cobra.Command, client *PowerSNMP.Client, target PowerSNMP.Target, table PowerSNMP.OID, opts []PowerSNMP.WalkOption) error {
	tbl, err := client.GetTable(ctx, target, table, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, index := range tbl.Order {
		fmt.Fprintf(out, "[%s]\n", index)
		for _, column := range tbl.Columns {
			if v, ok := tbl.Cell(index, column); ok {
				fmt.Fprintf(out, "  %d = %s\n", column, PowerSNMP.Convert_Variable_To_String(v))
			}
		}
	}
	return nil
}
