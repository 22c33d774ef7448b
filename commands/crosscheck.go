package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/visitparse/visit/parser"
)

// NewCrosscheckCommand creates the crosscheck subcommand: a
// wavefront-sensing consistency check plus guide star extraction for one
// visit file.
func NewCrosscheckCommand() *cobra.Command {
	var guideStars bool

	cmd := &cobra.Command{
		Use:   "crosscheck <visit-file>",
		Short: "Cross-check a visit file for wavefront-sensing consistency",
		Long: `Crosscheck partitions a visit file's activities into slew/guide and
science statements, reports whether the visit runs wavefront-sensing
scripts, and fails when a wavefront-sensing visit carries no AUX
statement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			check, err := v.CrossCheckWFSC()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Visit %s: %d slew/guide, %d science statements\n",
				v.ID, len(check.Slews), len(check.Activities))
			if check.WFSC {
				fmt.Fprintln(out, "Wavefront sensing: yes (AUX present)")
			} else {
				fmt.Fprintln(out, "Wavefront sensing: no")
			}

			if guideStars {
				stars, err := v.GuideStars()
				if err != nil {
					return err
				}
				for _, gs := range stars {
					fmt.Fprintf(out, "%s %s x=%g y=%g ra=%g dec=%g roll=%g\n",
						gs.GSA, gs.Detector, gs.XSci, gs.YSci, gs.RA, gs.Dec, gs.RollSci)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&guideStars, "guide-stars", false, "Print guide star positions from the guide statements")
	return cmd
}
