// Herramienta de migraciones de esquema. Aplica los archivos SQL de
// ./migrations contra la base configurada.
//
// Uso:
//
//	migrate up              aplica todas las migraciones pendientes
//	migrate down            revierte la última migración
//	migrate step <n>        aplica n migraciones (negativo = revertir)
//	migrate version         muestra la versión actual
//	migrate force <v>       fija la versión sin ejecutar SQL
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cafeto/storefront-api/pkg/config"
	"github.com/cafeto/storefront-api/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "directorio de migraciones")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	m, err := migrate.New("file://"+migrationsPath, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatal().Err(err).Msg("revertir migración")
		}
		log.Info().Msg("migración revertida")
	case "step":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Str("valor", args[1]).Msg("n inválido")
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("aplicar pasos")
		}
		log.Info().Int("n", n).Msg("pasos aplicados")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Info().Msg("sin migraciones aplicadas")
				return
			}
			log.Fatal().Err(err).Msg("consultar versión")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
	case "force":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate force <version>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Str("valor", args[1]).Msg("versión inválida")
		}
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Msg("forzar versión")
		}
		log.Info().Int("version", v).Msg("versión forzada")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`migrate [flags] <comando>

Comandos:
  up              aplica todas las migraciones pendientes
  down            revierte la última migración
  step <n>        aplica n migraciones (negativo = revertir)
  version         muestra la versión actual
  force <v>       fija la versión sin ejecutar SQL

Flags:
  -path string    directorio de migraciones (default: ./migrations)`)
}
