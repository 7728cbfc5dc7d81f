package cmd

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"stock-marketplace/database"
	"stock-marketplace/handlers"
	"stock-marketplace/models"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
)

func newCreateAdminCommand() *cobra.Command {
	flags := map[string]cobraflags.Flag{
		usernameFlag: &cobraflags.StringFlag{
			Name:  usernameFlag,
			Value: "",
			Usage: "Username of the new administrator (required)",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Password of the new administrator (required)",
		},
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account and print its bearer token.

Administrators cannot register through the API unless ALLOW_ADMIN_SIGNUP is set,
so this is how the first one is provisioned.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createAdmin(cmd, flags[usernameFlag].GetString(), flags[passwordFlag].GetString())
		},
	}

	cobraflags.RegisterMap(createAdminCmd, flags)
	return createAdminCmd
}

func createAdmin(cmd *cobra.Command, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("--%s and --%s are required", usernameFlag, passwordFlag)
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer closeDB(e.db, e.log)

	hashed, err := handlers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := models.User{
		Username: username,
		Password: hashed,
		Role:     models.RoleAdmin,
		Token:    handlers.NewToken(),
	}
	if err := database.NewStore(e.db).CreateUser(cmd.Context(), &admin); err != nil {
		return err
	}

	e.log.WithField("user_id", admin.ID).WithField("username", admin.Username).Info("administrator created")
	fmt.Fprintln(cmd.OutOrStdout(), admin.Token)
	return nil
}
