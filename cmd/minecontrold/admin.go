package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"minecontrol-backend/internal/auth"
	"minecontrol-backend/internal/db"
	"minecontrol-backend/internal/model"
	"minecontrol-backend/internal/store"
)

func createAdminCmd() *cobra.Command {
	var username, password, email, roleName string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back office user with the administrator role",
		Long: `Create the first back office account. The role is created when it does
not exist yet; it defaults to auth.admin_role from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "minecontrol ", log.LstdFlags)
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			if roleName == "" {
				roleName = cfg.Auth.AdminRole
			}

			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := gormDB.DB(); err == nil {
					sqlDB.Close()
				}
			}()

			user, err := createAdmin(cmd.Context(), gormDB, username, password, email, roleName)
			if errors.Is(err, store.ErrUniqueViolation) {
				fmt.Printf("%s user %q already exists\n", color.New(color.FgYellow).Sprint("EXISTS "), username)
				return nil
			}
			if err != nil {
				fmt.Printf("%s %v\n", color.New(color.FgRed).Sprint("FAILED "), err)
				return err
			}

			fmt.Printf("%s user %q (id %d) with role %s\n",
				color.New(color.FgGreen).Sprint("CREATED"), user.Username, user.ID, roleName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "plain password (required)")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&roleName, "role", "", "role name (default auth.admin_role)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// createAdmin finds or creates the role and inserts an active user holding it.
func createAdmin(ctx context.Context, gormDB *gorm.DB, username, password, email, roleName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, Email: email, PasswordHash: hash, Status: model.UserStatusActive}
	err = gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := model.Role{Name: roleName}
		if err := tx.Where(model.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to ensure role %q: %w", roleName, err)
		}
		user.RoleID = &role.ID
		return store.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
