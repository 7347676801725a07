package cmd

import (
	"ngo-cms/pkg/services"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Rebuild the content index and record the current URL prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := services.Flush(a.index, a.options, a.registry); err != nil {
			return err
		}
		cmd.Println(styleSuccess.Render("Routes flushed.") + " " +
			styleMuted.Render("signature "+a.registry.Signature()))
		return nil
	},
}
