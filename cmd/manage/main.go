// Command manage runs maintenance tasks against the movie review database.
//
//	manage seed [--movies-only] [--reviews-only] [--limit N] [--users N] [--demo] [--data-dir DIR]
//	manage createsuperuser --username NAME --email EMAIL --password PASS
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-review/internal/data/repository"
	"movie-review/internal/seed"
	"movie-review/pkg/database"
	"movie-review/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: manage <command> [flags]

Commands:
  seed              load the MovieLens 100k dataset
  createsuperuser   create a staff account
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "seed":
		err = runSeed(ctx, config, logger, args)
	case "createsuperuser":
		err = runCreateSuperuser(ctx, config, logger, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, config *utils.Config) (database.PgxIface, error) {
	db, err := database.InitDB(config.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runSeed(ctx context.Context, config *utils.Config, logger *zap.Logger, args []string) error {
	flags := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	opts := seed.Options{}
	flags.BoolVar(&opts.MoviesOnly, "movies-only", false, "only seed movies")
	flags.BoolVar(&opts.ReviewsOnly, "reviews-only", false, "only seed reviews (requires movies and users)")
	flags.IntVar(&opts.Limit, "limit", 0, "limit the number of movies and reviews")
	flags.IntVar(&opts.Users, "users", 50, "number of users to create")
	flags.BoolVar(&opts.Demo, "demo", false, "seed a small demo dataset (100 movies, 20 users, 500 reviews)")
	flags.StringVar(&opts.DataDir, "data-dir", "archive/ml-100k", "path to the MovieLens 100k directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if opts.MoviesOnly && opts.ReviewsOnly {
		return fmt.Errorf("--movies-only and --reviews-only are mutually exclusive")
	}

	db, err := openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := seed.NewSeeder(db, logger).Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Movies: %d created, %d updated\n", report.MoviesCreated, report.MoviesUpdated)
	fmt.Printf("Users: %d created\n", report.UsersCreated)
	fmt.Printf("Reviews: %d created, %d skipped\n", report.ReviewsCreated, report.ReviewsSkipped)
	return nil
}

func runCreateSuperuser(ctx context.Context, config *utils.Config, logger *zap.Logger, args []string) error {
	flags := pflag.NewFlagSet("createsuperuser", pflag.ContinueOnError)
	username := flags.String("username", "", "username of the staff account")
	email := flags.String("email", "", "email of the staff account")
	password := flags.String("password", "", "password of the staff account")
	if err := flags.Parse(args); err != nil {
		return err
	}

	db, err := openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewRepository(db, logger)
	user, err := seed.CreateSuperuser(ctx, repo.User, *username, *email, *password)
	if err != nil {
		return err
	}

	logger.Info("Superuser created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	fmt.Printf("Superuser %q created.\n", user.Username)
	return nil
}
