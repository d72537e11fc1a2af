package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/jakartagen/internal/generate"
)

// checkCmd verifies that the project is in sync with the entity schema
// without touching any file.
var checkCmd = &cobra.Command{
	Use:   "check <entities.json>",
	Short: "Validate the schema and report generated files or descriptors that are out of date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		pipeline, err := newPipeline(p, true)
		if err != nil {
			return err
		}

		fmt.Printf("Phase 1: Validating %s...\n", args[0])
		r, err := pipeline.Run(cmd.Context(), generate.Request{SchemaPath: args[0], PersistencePath: p.cfg.PersistencePath()})
		if err != nil {
			return err
		}
		if err := r.Err(); err != nil {
			return err
		}
		fmt.Printf("  %d entities validate.\n", len(r.Entities))

		fmt.Println("Phase 2: Checking generated code freshness...")
		drift := drifted(r)
		for _, d := range drift {
			fmt.Printf("  out of date: %s\n", d)
		}
		if len(drift) > 0 {
			return errors.New("generated code is out of date; run 'jakartagen entities'")
		}
		fmt.Println("  Generated code is clean.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// drifted lists the files a real run would change.
func drifted(r *generate.Report) []string {
	var out []string
	for _, a := range r.Artifacts() {
		if a.Status == generate.StatusWritten {
			out = append(out, a.Path)
		}
	}
	for _, m := range r.Merges {
		if m.Changed {
			out = append(out, m.Descriptor+" ("+m.Change+")")
		}
	}
	return out
}
