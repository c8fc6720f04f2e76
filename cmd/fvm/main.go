// fvm runs FastVM bytecode against the reference host, either from a
// transient in-memory world state or a LevelDB-backed one, and
// disassembles code blobs.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aion-camus/aionr-arm/fastvm"
	"github.com/aion-camus/aionr-arm/host"
	"github.com/aion-camus/aionr-arm/log"
	"github.com/aion-camus/aionr-arm/vmtypes"
)

var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "fvm",
		Short:   "FastVM execution tool",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		codeHex   string
		codeFile  string
		inputHex  string
		gas       int64
		value     uint64
		revName   string
		senderHex string
		destHex   string
		statePath string
		create    bool
		static    bool
		logLevel  string
		trace     bool
	)

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Execute bytecode against the reference host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := log.InitLogger(logLevel); err != nil {
				return err
			}

			code, err := readCode(codeHex, codeFile, args)
			if err != nil {
				return err
			}
			input, err := decodeHex(inputHex)
			if err != nil {
				return fmt.Errorf("bad --input: %w", err)
			}
			rev, err := parseRevision(revName)
			if err != nil {
				return err
			}
			sender, err := parseAddress(senderHex)
			if err != nil {
				return fmt.Errorf("bad --sender: %w", err)
			}
			dest, err := parseAddress(destHex)
			if err != nil {
				return fmt.Errorf("bad --dest: %w", err)
			}

			vm := fastvm.New(fastvm.WithTrace(trace))
			defer vm.Destroy()

			var (
				world *host.Memory
				db    *host.DB
			)
			if statePath != "" {
				db, err = host.OpenDB(statePath)
				if err != nil {
					return err
				}
				defer db.Close()
				world, err = db.Load(vm, rev)
				if err != nil {
					return err
				}
			} else {
				world = host.NewMemory(vm, rev)
			}

			msg := vmtypes.Message{
				Destination: dest,
				Sender:      sender,
				Value:       vmtypes.WordFromUint64(value),
				Gas:         gas,
				Kind:        vmtypes.Call,
			}
			if create {
				msg.Kind = vmtypes.Create
				msg.Input = code
			} else {
				msg.Input = input
				world.SetCode(dest, code)
			}
			if static {
				msg.Flags |= vmtypes.Static
			}
			// Fund the sender so value transfers pass the balance guard.
			if value > 0 && statePath == "" {
				world.SetBalance(sender, vmtypes.WordFromUint64(value))
			}

			res := world.Execute(msg)
			defer res.Free()

			fmt.Printf("status:   %s\n", res.Status.String())
			fmt.Printf("gas left: %d\n", res.GasLeft)
			fmt.Printf("gas used: %d\n", gas-res.GasLeft)
			if res.CreatedAddress != nil {
				fmt.Printf("created:  %s\n", res.CreatedAddress.Hex())
			}
			if len(res.Output) > 0 {
				fmt.Printf("output:   0x%s\n", hex.EncodeToString(res.Output))
			}
			for i, entry := range world.Logs() {
				fmt.Printf("log[%d]:   addr=%s topics=%d data=0x%s\n",
					i, entry.Address.Hex(), len(entry.Topics), hex.EncodeToString(entry.Data))
			}

			if db != nil && res.Status == vmtypes.Success {
				if err := db.Save(world); err != nil {
					return err
				}
			}
			if res.Status != vmtypes.Success {
				os.Exit(1)
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&codeHex, "code", "", "bytecode as hex")
	runCmd.Flags().StringVar(&codeFile, "code-file", "", "file with hex bytecode")
	runCmd.Flags().StringVar(&inputHex, "input", "", "call data as hex")
	runCmd.Flags().Int64Var(&gas, "gas", 1000000, "gas budget")
	runCmd.Flags().Uint64Var(&value, "value", 0, "value transferred with the call")
	runCmd.Flags().StringVar(&revName, "revision", "aion-v1", "revision (frontier..aion-v1)")
	runCmd.Flags().StringVar(&senderHex, "sender", "", "sender address as hex")
	runCmd.Flags().StringVar(&destHex, "dest", "", "destination address as hex")
	runCmd.Flags().StringVar(&statePath, "state", "", "LevelDB world state path (transient if empty)")
	runCmd.Flags().BoolVar(&create, "create", false, "treat code as init code and deploy")
	runCmd.Flags().BoolVar(&static, "static", false, "run in static mode")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace..crit)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "per-instruction trace logging")
	rootCmd.AddCommand(runCmd)

	var disasmCmd = &cobra.Command{
		Use:   "disasm",
		Short: "Disassemble bytecode",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(codeHex, codeFile, args)
			if err != nil {
				return err
			}
			fmt.Print(fastvm.Disassemble(code))
			return nil
		},
	}
	disasmCmd.Flags().StringVar(&codeHex, "code", "", "bytecode as hex")
	disasmCmd.Flags().StringVar(&codeFile, "code-file", "", "file with hex bytecode")
	rootCmd.AddCommand(disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readCode resolves bytecode from --code, --code-file or a positional
// hex argument, in that order.
func readCode(codeHex, codeFile string, args []string) ([]byte, error) {
	switch {
	case codeHex != "":
		return decodeHex(codeHex)
	case codeFile != "":
		raw, err := os.ReadFile(codeFile)
		if err != nil {
			return nil, err
		}
		return decodeHex(strings.TrimSpace(string(raw)))
	case len(args) > 0:
		return decodeHex(args[0])
	}
	return nil, fmt.Errorf("no bytecode given (use --code, --code-file or a positional argument)")
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func parseAddress(s string) (vmtypes.Address, error) {
	var addr vmtypes.Address
	if s == "" {
		return addr, nil
	}
	raw, err := decodeHex(s)
	if err != nil {
		return addr, err
	}
	if len(raw) > len(addr) {
		return addr, fmt.Errorf("address longer than %d bytes", len(addr))
	}
	copy(addr[len(addr)-len(raw):], raw)
	return addr, nil
}

func parseRevision(name string) (vmtypes.Revision, error) {
	switch strings.ToLower(name) {
	case "frontier":
		return vmtypes.Frontier, nil
	case "homestead":
		return vmtypes.Homestead, nil
	case "tangerine", "tangerine-whistle":
		return vmtypes.TangerineWhistle, nil
	case "spurious", "spurious-dragon":
		return vmtypes.SpuriousDragon, nil
	case "byzantium":
		return vmtypes.Byzantium, nil
	case "aion":
		return vmtypes.Aion, nil
	case "constantinople":
		return vmtypes.Constantinople, nil
	case "aion-v1", "aionv1":
		return vmtypes.AionV1, nil
	}
	return 0, fmt.Errorf("unknown revision %q", name)
}
