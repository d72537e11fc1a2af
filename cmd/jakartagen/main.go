// Command jakartagen scaffolds Jakarta EE code and descriptors into a Maven
// project from an entity JSON file.
//
// Usage:
//
//	jakartagen entities entities.json     # sources, views and persistence.xml
//	jakartagen persistence entities.json  # persistence.xml classes only
//	jakartagen datasource                 # web.xml data source + JDBC driver
//	jakartagen faces                      # Faces servlet + Faces API dependency
//	jakartagen check entities.json        # fail if generated code is out of date
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	verbose    bool
	target     string
	unit       string
)

var rootCmd = &cobra.Command{
	Use:           "jakartagen",
	Short:         "Scaffold Jakarta EE entities, services, views and descriptors",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "project root (default: nearest directory with a pom.xml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&target, "target", "", "jakarta10 or jakarta11 (overrides config)")
	rootCmd.PersistentFlags().StringVar(&unit, "unit", "", "persistence unit name (overrides config)")

	rootCmd.AddCommand(entitiesCmd, persistenceCmd, datasourceCmd, facesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "jakartagen: %v\n", err)
		os.Exit(1)
	}
}
