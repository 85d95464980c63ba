package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guit-county/guit-portal/internal/daemon"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account if no admin exists",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}

		if err = initLogger(&c); err != nil {
			return err
		}

		ctx := context.Background()

		st, _, err := daemon.OpenStore(ctx, &c)
		if err != nil {
			return err
		}
		defer st.Close(ctx) //nolint: errcheck

		created, err := daemon.Seed(ctx, st)
		if err != nil {
			return err
		}

		msg := "an admin account exists, nothing to do"
		if created {
			msg = fmt.Sprintf("created admin account %q", daemon.AdminUsername)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)

		return err
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}
