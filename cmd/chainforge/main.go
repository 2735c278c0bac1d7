// Package main is the chainforge inspection CLI: a read-only view over the
// adapter registry for listing adapters, describing their declarations, and
// checking cross-module compatibility from a shell.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cobaltstack/chainforge/internal/compat"
	"github.com/cobaltstack/chainforge/internal/config"
	"github.com/cobaltstack/chainforge/internal/contracts"
	"github.com/cobaltstack/chainforge/internal/crosschain"
	"github.com/cobaltstack/chainforge/internal/environment"
	"github.com/cobaltstack/chainforge/internal/logging"
	"github.com/cobaltstack/chainforge/internal/registry"
	"github.com/cobaltstack/chainforge/internal/wallet"
)

var version = "0.1.0"

var (
	cfgPath  string
	logLevel string
)

func main() {
	root := &cobra.Command{
		Use:     "chainforge",
		Short:   "Inspect the chainforge adapter registry",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logging.Setup(cfg.Logging.Level)
			cfg.Apply()
			registerAll(registry.Default())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to chainforge.yaml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level")

	root.AddCommand(adaptersCmd(), compatCmd(), envCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// registerAll runs every module's registration unit against reg.
func registerAll(reg *registry.Registry) {
	wallet.Register(reg)
	contracts.Register(reg)
	crosschain.Register(reg)
}

func adaptersCmd() *cobra.Command {
	var moduleName string

	cmd := &cobra.Command{
		Use:   "adapters",
		Short: "List and describe registered adapters",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			for _, mod := range reg.Modules() {
				if moduleName != "" && mod.Name != moduleName {
					continue
				}
				fmt.Printf("%s (v%s)\n", mod.Name, mod.Version)
				for _, meta := range reg.Adapters(mod.Name) {
					fmt.Printf("  %-24s kind=%s capabilities=%d\n",
						meta.Key(), meta.Kind, len(meta.Capabilities))
				}
			}
			return nil
		},
	}
	list.Flags().StringVar(&moduleName, "module", "", "restrict to one module")

	describe := &cobra.Command{
		Use:   "describe <module> <name> [version]",
		Short: "Show one adapter's declarations",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			var (
				meta registry.AdapterMetadata
				ok   bool
			)
			if len(args) == 3 {
				meta, ok = reg.Adapter(args[0], args[1], args[2])
			} else {
				meta, ok = reg.LatestAdapter(args[0], args[1])
			}
			if !ok {
				return fmt.Errorf("adapter %s/%s not registered", args[0], args[1])
			}

			fmt.Printf("%s/%s\n", meta.Module, meta.Key())
			fmt.Printf("  kind: %s\n", meta.Kind)
			fmt.Printf("  capabilities:\n")
			for _, c := range meta.CapabilitySet().List() {
				fmt.Printf("    - %s\n", c)
			}
			if len(meta.Requirements) > 0 {
				fmt.Printf("  requirements:\n")
				for _, r := range meta.Requirements {
					optional := ""
					if r.AllowUndefined {
						optional = " (optional)"
					}
					fmt.Printf("    - %s: %s%s\n", r.Path, r.Type, optional)
				}
			}
			if meta.Environment != nil && len(meta.Environment.Supported) > 0 {
				envs := make([]string, len(meta.Environment.Supported))
				for i, e := range meta.Environment.Supported {
					envs[i] = string(e)
				}
				fmt.Printf("  environments: %s\n", strings.Join(envs, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(list, describe)
	return cmd
}

func compatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compat <module/name@version> <module/name@version>",
		Short: "Check cross-module compatibility between two adapters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseRef(args[0])
			if err != nil {
				return err
			}
			dst, err := parseRef(args[1])
			if err != nil {
				return err
			}

			res := compat.Check(registry.Default(), src, dst)
			if res.Compatible {
				fmt.Printf("%s and %s are compatible\n", src, dst)
				return nil
			}
			fmt.Printf("%s and %s are NOT compatible: %s\n", src, dst, res.Reason)
			for _, c := range res.Missing {
				fmt.Printf("  missing capability: %s\n", c)
			}
			return nil
		},
	}
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the detected runtime environments",
		Run: func(cmd *cobra.Command, args []string) {
			for _, e := range environment.Detect() {
				fmt.Println(e)
			}
		},
	}
}

// parseRef parses "module/name@version".
func parseRef(s string) (compat.Ref, error) {
	modRest := strings.SplitN(s, "/", 2)
	if len(modRest) != 2 {
		return compat.Ref{}, fmt.Errorf("invalid adapter ref %q, want module/name@version", s)
	}
	nameVer := strings.SplitN(modRest[1], "@", 2)
	if len(nameVer) != 2 || nameVer[0] == "" || nameVer[1] == "" {
		return compat.Ref{}, fmt.Errorf("invalid adapter ref %q, want module/name@version", s)
	}
	return compat.Ref{Module: modRest[0], Adapter: nameVer[0], Version: nameVer[1]}, nil
}
