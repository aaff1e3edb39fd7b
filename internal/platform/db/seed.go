package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"npsportal/internal/domain/auth"
	"npsportal/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	for _, name := range cfg.SeedDepartments {
		if err := ensureDepartment(ctx, pool, name); err != nil {
			return err
		}
	}

	if cfg.SeedAdminUsername != "" && cfg.SeedAdminPassword != "" {
		if err := ensureSuperAdmin(ctx, pool, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	return ensureKioskStation(ctx, pool, cfg.OfficeLabel)
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) error {
	_, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
	return err
}

func ensureSuperAdmin(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE username = $1", username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (employee_number, username, password_hash, role, first_name, last_name, address, gender)
    VALUES ('000001', $1, $2, $3, 'System', 'Administrator', '', '')
  `, username, hash, auth.RoleSuperAdmin)
	return err
}

func ensureKioskStation(ctx context.Context, pool *pgxpool.Pool, label string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM kiosk_stations").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "NAPOLCOM Portal",
		AccountName: label,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO kiosk_stations (label, totp_secret) VALUES ($1, $2)", label, key.Secret())
	return err
}
