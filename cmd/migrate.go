package cmd

import (
	"fmt"

	"blog-cms/config"
	"blog-cms/migrations"

	"github.com/spf13/cobra"
)

func migrateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the database schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			if rt.cfg.DBDriver != "postgres" {
				return fmt.Errorf("migrate needs DB_DRIVER=postgres, got %q", rt.cfg.DBDriver)
			}
			db, err := config.OpenDB(rt.cfg, rt.log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			switch direction {
			case "up":
				err = migrations.Up(sqlDB)
			case "down":
				err = migrations.Down(sqlDB)
			case "status":
				err = migrations.Status(sqlDB)
			default:
				return fmt.Errorf("unknown direction %q", direction)
			}
			if err != nil {
				return err
			}
			rt.log.Info("migrate finished", "direction", direction)
			return nil
		},
	}
	return cmd
}
