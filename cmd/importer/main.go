package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/srobertsphd/alano-club/internal/importer"
	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/membertypes"
	"github.com/srobertsphd/alano-club/internal/paymentmethods"
	"github.com/srobertsphd/alano-club/internal/payments"
	"github.com/srobertsphd/alano-club/pkg/config"
	"github.com/srobertsphd/alano-club/pkg/db"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

// Entities must load in dependency order: catalogs before members, members
// before payments.
var entityOrder = []string{"member-types", "payment-methods", "members", "payments"}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "importer"})

	_ = godotenv.Load()

	entity := flag.String("entity", "", "one of member-types|payment-methods|members|payments|all")
	file := flag.String("file", "", "path to the csv export (defaults to <data dir>/<entity>.csv)")
	flag.Parse()

	if *entity == "" {
		fmt.Fprintln(os.Stderr, "missing -entity")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "importer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repos := repoSet{
		members:        members.NewRepository(dbClient.DB()),
		memberTypes:    membertypes.NewRepository(dbClient.DB()),
		paymentMethods: paymentmethods.NewRepository(dbClient.DB()),
		payments:       payments.NewRepository(dbClient.DB()),
	}

	entities := []string{*entity}
	if *entity == "all" {
		if *file != "" {
			fmt.Fprintln(os.Stderr, "-file cannot be combined with -entity=all")
			os.Exit(1)
		}
		entities = entityOrder
	}

	failed := false
	for _, name := range entities {
		path := *file
		if path == "" {
			path = filepath.Join(cfg.Import.DataDir, name+".csv")
		}

		summary, err := runImport(ctx, repos, name, path)
		if err != nil {
			logg.Error(logg.WithField(ctx, "entity", name), "import failed", err)
			failed = true
			continue
		}

		fmt.Printf("%s: created=%d duplicates=%d skipped=%d failed=%d\n",
			name, summary.Created, summary.Duplicates, summary.Skipped, summary.Failed)
		for _, outcome := range summary.Errors() {
			fmt.Fprintf(os.Stderr, "  row %d (%s): %v\n", outcome.Row, outcome.Action, outcome.Err)
		}
		if summary.Failed > 0 {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

type repoSet struct {
	members        members.Repository
	memberTypes    membertypes.Repository
	paymentMethods paymentmethods.Repository
	payments       payments.Repository
}

func runImport(ctx context.Context, repos repoSet, entity, path string) (*importer.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch entity {
	case "member-types":
		return importer.ImportMemberTypes(ctx, repos.memberTypes, f)
	case "payment-methods":
		return importer.ImportPaymentMethods(ctx, repos.paymentMethods, f)
	case "members":
		return importer.ImportMembers(ctx, repos.members, repos.memberTypes, f)
	case "payments":
		return importer.ImportPayments(ctx, repos.payments, repos.members, repos.paymentMethods, f)
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}
