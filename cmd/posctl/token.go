package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/config"
	"github.com/saadmalik-333/business-insight-pos/internal/infra"
	"github.com/saadmalik-333/business-insight-pos/internal/middleware"
	"github.com/saadmalik-333/business-insight-pos/internal/model"
	"github.com/saadmalik-333/business-insight-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

var _ profileFinder = repository.ProfileRepository(nil)

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var profile, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(profile)
			if err != nil {
				return fmt.Errorf("--profile must be a UUID: %w", err)
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL, false)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			granted, err := resolveTokenRole(cmd.Context(), repository.NewProfileRepository(db), id, role)
			if err != nil {
				return err
			}
			tok, err := middleware.IssueToken(cfg.JWTSecret, id, granted, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "profile id the token is issued for")
	cmd.Flags().StringVar(&role, "role", "", "cashier | admin (default: the profile's role)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

// resolveTokenRole looks the profile up and returns the role the token may
// carry. An admin may mint a cashier token; a cashier never gets admin.
func resolveTokenRole(ctx context.Context, profiles profileFinder, id uuid.UUID, requested string) (string, error) {
	p, err := profiles.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("profile %s does not exist; run posctl seed first", id)
	}
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}

	switch requested {
	case "":
		return p.Role, nil
	case model.RoleCashier:
		return requested, nil
	case model.RoleAdmin:
		if p.Role != model.RoleAdmin {
			return "", fmt.Errorf("profile %s is a %s and cannot hold an admin token", p.Email, p.Role)
		}
		return requested, nil
	default:
		return "", fmt.Errorf("--role must be %q or %q", model.RoleCashier, model.RoleAdmin)
	}
}
