package cmd

import (
	"fmt"
	"os"

	"blog-cms/app"
	"blog-cms/services"

	"github.com/spf13/cobra"
)

func importPincodesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import-pincodes <file.csv>",
		Short: "Load pincodes from a CSV file",
		Long:  "Each row is pincode,state,city,locations with locations separated by \"|\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := app.NewStore(rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := services.NewPincodeService(a.Repos.Pincodes, rt.log).Import(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("imported %d rows before failing: %w", n, err)
			}
			cmd.Printf("imported %d pincodes\n", n)
			return nil
		},
	}
}
